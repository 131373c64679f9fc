// Package comparator provides domain types for comparing two candidate
// responses to an input message using an LLM evaluator.
package comparator

import "context"

// ComparisonInput holds the three texts being evaluated. It is immutable once
// constructed and consumed exactly once per invocation.
type ComparisonInput struct {
	InputMessage string // The original message both outputs respond to
	OutputA      string // First candidate response
	OutputB      string // Second candidate response
}

// Result is the full outcome of a comparison, including the source file paths
// for context. It serializes to the CLI's --json output format.
type Result struct {
	InputFile        string `json:"input_file"`
	OutputAFile      string `json:"output_a_file"`
	OutputBFile      string `json:"output_b_file"`
	InputMessage     string `json:"input_message"`
	OutputA          string `json:"output_a"`
	OutputB          string `json:"output_b"`
	ComparisonResult string `json:"comparison_result"`
}

// ContentLoader reads text content from a path.
type ContentLoader interface {
	// Load returns the trimmed content of the file at path.
	Load(path string) (string, error)
}

// Comparator evaluates two candidate outputs against an input message and
// returns the evaluator's verdict: one of "A", "B", "Both" or "Neither"
// followed by a brief justification.
type Comparator interface {
	Compare(ctx context.Context, input ComparisonInput) (string, error)
}

// ResultRenderer renders a comparison result for terminal display.
type ResultRenderer interface {
	Render(result Result) string
}
