package conform

import (
	"regexp"
	"strings"
)

// inWordQuote matches a double quote wedged between two word characters,
// i.e. an apostrophe that the blanket quote swap wrongly converted.
var inWordQuote = regexp.MustCompile(`(\w)"(\w)`)

// normalizeResponse rewrites the model's quoting conventions so the text
// parses as JSON. It strips surrounding whitespace and markdown code fences,
// converts every single quote to a double quote, then restores apostrophes
// that sit inside a word (it"s → it's).
//
// This is a lossy heuristic, not a tokenizer: it assumes the model's
// structural punctuation is quote characters distinct from in-word
// apostrophes, and can misfire on text violating that assumption.
func normalizeResponse(raw string) string {
	s := strings.TrimSpace(raw)

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	s = strings.ReplaceAll(s, "'", `"`)
	s = inWordQuote.ReplaceAllString(s, `${1}'${2}`)
	return s
}
