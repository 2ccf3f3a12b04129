package conform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-sommer/stick"
)

func TestBuildInstruction_BaseAndShape(t *testing.T) {
	f := Format{"mood": "the mood"}
	got := buildInstruction("You are a classifier.", f, Hints{}, false, "")

	assert.True(t, strings.HasPrefix(got, "You are a classifier."))
	assert.Contains(t, got, "Output format instructions:")
	assert.Contains(t, got, `{"mood":"the mood"}`)
	assert.Contains(t, got, "Do not use quotation marks or escape characters")
	assert.NotContains(t, got, "array of objects")
	assert.NotContains(t, got, "<placeholder>")
	assert.NotContains(t, got, "Error Message")
}

func TestBuildInstruction_ConditionalDirectives(t *testing.T) {
	f := Format{"tags": []string{"a", "b"}, "name": "<name>"}
	h := AnalyzeFormat(f)
	got := buildInstruction("base", f, h, true, "")

	assert.Contains(t, got, "array of objects")
	assert.Contains(t, got, "Replace each <placeholder>")
	assert.Contains(t, got, "one output object per input element")
}

func TestBuildInstruction_ErrorFeedbackVerbatim(t *testing.T) {
	errDesc := "Invalid output: {'mood': happy}\nProblem: parse output"
	got := buildInstruction("base", Format{"mood": "x"}, Hints{}, false, errDesc)

	idx := strings.Index(got, "Error Message:")
	require.GreaterOrEqual(t, idx, 0)
	assert.Contains(t, got[idx:], errDesc)
}

func TestBuildInstruction_DirectiveOrder(t *testing.T) {
	f := Format{"tags": []string{"a"}}
	got := buildInstruction("base", f, AnalyzeFormat(f), true, "boom")

	shape := strings.Index(got, "matching exactly this shape")
	quotes := strings.Index(got, "Do not use quotation marks")
	list := strings.Index(got, "array of objects")
	perElem := strings.Index(got, "one output object per input element")
	errSec := strings.Index(got, "Error Message:")

	assert.True(t, shape < quotes && quotes < list && list < perElem && perElem < errSec,
		"directives out of order: %d %d %d %d %d", shape, quotes, list, perElem, errSec)
}

func TestStickInstructionProvider(t *testing.T) {
	p := NewStickInstructionProvider(
		"{{ base }} | shape={{ format }}{% if error %} | fix: {{ error }}{% endif %}",
		map[string]stick.Value{"team": "qa"},
	)

	got, err := p.Instruction("hello", Format{"a": "1"}, Hints{}, false, "")
	require.NoError(t, err)
	assert.Equal(t, `hello | shape={"a":"1"}`, got)

	got, err = p.Instruction("hello", Format{"a": "1"}, Hints{}, false, "bad quote")
	require.NoError(t, err)
	assert.Contains(t, got, "fix: bad quote")
}
