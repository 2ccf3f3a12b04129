package conform

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Item is one validated output record matching the Format's top-level shape.
// Items are constructed fresh per attempt and never mutated after the
// validator returns them.
type Item map[string]any

// Values projects the item to its field values with the keys discarded,
// ordered by field name. Maps carry no insertion order, so lexical order is
// the deterministic choice.
func (it Item) Values() []any {
	keys := make([]string, 0, len(it))
	for k := range it {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]any, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, it[k])
	}
	return vals
}

// validateOutput decodes the normalized text and walks it against the
// expected format. Input list-ness and output list-ness are coupled: a list
// input requires a top-level array, a scalar input forbids one (the single
// object is wrapped into a one-element slice for uniform processing).
//
// Any failure aborts the whole attempt; there is no partial acceptance.
func validateOutput(normalized string, inputIsList bool, f Format, defaultResponse string) ([]Item, error) {
	var parsed any
	if err := json.Unmarshal([]byte(normalized), &parsed); err != nil {
		return nil, &ParseError{Raw: normalized, Err: err}
	}

	var records []map[string]any
	switch v := parsed.(type) {
	case []any:
		if !inputIsList {
			return nil, &ShapeError{Raw: normalized, WantList: false}
		}
		records = make([]map[string]any, 0, len(v))
		for _, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, &ParseError{Raw: normalized, Err: fmt.Errorf("array element is not an object")}
			}
			records = append(records, obj)
		}
	case map[string]any:
		if inputIsList {
			return nil, &ShapeError{Raw: normalized, WantList: true}
		}
		records = []map[string]any{v}
	default:
		if inputIsList {
			return nil, &ShapeError{Raw: normalized, WantList: true}
		}
		return nil, &ParseError{Raw: normalized, Err: fmt.Errorf("output is not an object")}
	}

	items := make([]Item, 0, len(records))
	for _, rec := range records {
		item, err := validateItem(rec, f, defaultResponse, normalized)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// validateItem checks one output record against every top-level key of the
// format. Nested formats are serialized into the prompt but not recursed
// into here.
func validateItem(rec map[string]any, f Format, defaultResponse, normalized string) (Item, error) {
	item := make(Item, len(rec))
	for k, v := range rec {
		item[k] = v
	}

	for _, key := range sortedKeys(f) {
		// dynamic keys are never required to be literally present
		if isPlaceholderKey(key) {
			continue
		}
		val, ok := item[key]
		if !ok {
			return nil, &MissingFieldError{Key: key, Raw: normalized}
		}
		if choices, isChoice := choiceValues(f[key]); isChoice {
			item[key] = resolveChoice(val, choices, defaultResponse)
		}
	}
	return item, nil
}

// choiceValues reports whether the expected value declares a choice field
// and returns its allowed values. Both []string and []any-of-strings forms
// are accepted, since Format values are untyped.
func choiceValues(want any) ([]string, bool) {
	switch w := want.(type) {
	case []string:
		return w, true
	case []any:
		out := make([]string, 0, len(w))
		for _, v := range w {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// resolveChoice collapses an array-valued answer to its first element,
// substitutes the configured default on an out-of-vocabulary value (an empty
// default disables substitution), and truncates trailing commentary the
// model sometimes appends after a colon.
func resolveChoice(val any, choices []string, defaultResponse string) any {
	if arr, ok := val.([]any); ok {
		if len(arr) == 0 {
			val = ""
		} else {
			val = arr[0]
		}
	}
	s, ok := val.(string)
	if !ok {
		s = fmt.Sprint(val)
	}
	if defaultResponse != "" && !slices.Contains(choices, s) {
		s = defaultResponse
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}
