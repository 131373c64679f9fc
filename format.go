package comparator

import (
	"fmt"
	"strings"
)

// PromptFormatter renders comparison input as structured text for LLM prompts.
type PromptFormatter interface {
	Format(input ComparisonInput) string
}

// DefaultFormatter implements PromptFormatter with the standard format.
type DefaultFormatter struct{}

// Format renders the three texts verbatim, each labeled and quoted so the
// evaluator can tell where one ends and the next begins.
func (f *DefaultFormatter) Format(input ComparisonInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Input Message: \"%s\"\n\n", input.InputMessage)
	fmt.Fprintf(&sb, "Output A: \"%s\"\n\n", input.OutputA)
	fmt.Fprintf(&sb, "Output B: \"%s\"", input.OutputB)

	return sb.String()
}
