package conform

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Format declares the shape the model must produce. Each key maps to one of:
//
//   - string: a free-text field; a value containing <...> marks a slot the
//     model fills with generated content
//   - []string: a choice field restricted to the listed values
//   - Format (or map[string]any): a nested structure, serialized into the
//     prompt but not validated below the top level
//
// A Format is treated as immutable for the duration of one invocation.
type Format map[string]any

// Hints are the structural cues the prompt builder derives from a Format.
type Hints struct {
	HasListField    bool // serialized format contains an array literal
	HasDynamicField bool // serialized format contains a <...> placeholder
}

// placeholderPattern matches a <...> free-generation marker, non-greedy so
// adjacent placeholders on one line stay separate matches.
var placeholderPattern = regexp.MustCompile(`<.*?>`)

// serializeFormat renders f as compact JSON. encoding/json writes map keys
// in sorted order, so the text is deterministic for a given Format.
func serializeFormat(f Format) string {
	if len(f) == 0 {
		return ""
	}
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(b)
}

// AnalyzeFormat derives Hints from the serialized format text. Detection is
// deliberately textual rather than a structural walk: an array literal
// anywhere flips HasListField, a <...> substring anywhere (keys or values)
// flips HasDynamicField. A nil or empty format yields both hints false.
func AnalyzeFormat(f Format) Hints {
	s := serializeFormat(f)
	return Hints{
		HasListField:    strings.Contains(s, "["),
		HasDynamicField: placeholderPattern.MatchString(s),
	}
}

// isPlaceholderKey reports whether key names a dynamically-named field,
// which is exempt from strict presence checks.
func isPlaceholderKey(key string) bool {
	return placeholderPattern.MatchString(key)
}

// sortedKeys returns f's field names in lexical order.
func sortedKeys(f Format) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
