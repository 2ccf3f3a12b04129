package conform

import (
	"fmt"
	"strings"

	"github.com/tyler-sommer/stick"
)

// InstructionProvider renders the system instruction for one attempt. The
// default provider emits the built-in directives; callers may swap in their
// own scaffold (see StickInstructionProvider).
type InstructionProvider interface {
	Instruction(base string, f Format, h Hints, inputIsList bool, errDesc string) (string, error)
}

// directiveProvider emits the built-in instruction directives.
type directiveProvider struct{}

func (directiveProvider) Instruction(base string, f Format, h Hints, inputIsList bool, errDesc string) (string, error) {
	return buildInstruction(base, f, h, inputIsList, errDesc), nil
}

// buildInstruction composes the system instruction: the caller's base
// prompt, the serialized expected shape, formatting directives derived from
// the hints, and on a retry the previous attempt's error description. The
// directive order is fixed so attempts are reproducible.
func buildInstruction(base string, f Format, h Hints, inputIsList bool, errDesc string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nOutput format instructions:\n")
	b.WriteString("Return the output as JSON data matching exactly this shape: ")
	b.WriteString(serializeFormat(f))
	b.WriteString("\nDo not use quotation marks or escape characters inside field values.")
	if h.HasListField {
		b.WriteString("\nA field whose expected value is a list must be returned as an array of objects.")
	}
	if h.HasDynamicField {
		b.WriteString("\nReplace each <placeholder> with concrete generated content, e.g. {\"<topic>\": \"<text about the topic>\"} could become {\"weather\": \"sunny with light wind\"}.")
	}
	if inputIsList {
		b.WriteString("\nThe input is a list: produce one output object per input element, all inside a single JSON array.")
	}
	if errDesc != "" {
		b.WriteString("\n\nError Message:\n")
		b.WriteString(errDesc)
	}
	return b.String()
}

// StickInstructionProvider renders the system instruction from a Twig
// template. The template receives base, format, has_list_field,
// has_dynamic_field, input_is_list and error variables, plus any custom
// variables supplied at construction.
type StickInstructionProvider struct {
	env  *stick.Env
	tpl  string
	vars map[string]stick.Value
}

// NewStickInstructionProvider builds a provider around one template. Extra
// template variables are optional.
func NewStickInstructionProvider(tpl string, vars map[string]stick.Value) *StickInstructionProvider {
	return &StickInstructionProvider{env: stick.New(nil), tpl: tpl, vars: vars}
}

func (p *StickInstructionProvider) Instruction(base string, f Format, h Hints, inputIsList bool, errDesc string) (string, error) {
	ctx := map[string]stick.Value{
		"base":              base,
		"format":            serializeFormat(f),
		"has_list_field":    h.HasListField,
		"has_dynamic_field": h.HasDynamicField,
		"input_is_list":     inputIsList,
		"error":             errDesc,
	}
	for k, v := range p.vars {
		ctx[k] = v
	}

	var out strings.Builder
	if err := p.env.Execute(p.tpl, &out, ctx); err != nil {
		return "", fmt.Errorf("execute instruction template: %w", err)
	}
	return out.String(), nil
}
