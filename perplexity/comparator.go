package perplexity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	comparator "github.com/subrat-kp/response-comparator"
)

// Compile-time interface verification.
var _ comparator.Comparator = (*Comparator)(nil)

// DefaultModel is the model used for comparisons.
const DefaultModel = "llama-3.1-sonar-small-128k-online"

// MaxVerdictTokens caps the length of the generated verdict. Responses are
// expected to be short: a token plus a one-to-two sentence justification.
const MaxVerdictTokens = 200

// VerdictTemperature keeps generation close to deterministic.
const VerdictTemperature = 0.1

// ErrNoChoices is returned when the API response contains no choices.
var ErrNoChoices = errors.New("unable to get a valid response from the API")

// ChatClient abstracts the chat-completions transport for testing.
type ChatClient interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Comparator implements comparator.Comparator using the Perplexity API.
type Comparator struct {
	client    ChatClient
	model     string
	formatter comparator.PromptFormatter
}

// ComparatorOption configures a Comparator.
type ComparatorOption func(*Comparator)

// WithModel overrides the model used for comparisons.
func WithModel(model string) ComparatorOption {
	return func(c *Comparator) {
		c.model = model
	}
}

// NewComparator creates a new Comparator.
func NewComparator(client ChatClient, opts ...ComparatorOption) *Comparator {
	c := &Comparator{
		client:    client,
		model:     DefaultModel,
		formatter: &comparator.DefaultFormatter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare sends the three texts to the API and returns the verdict text.
// Each request attempt is bounded by the client's per-attempt timeout; no
// additional deadline is layered on top.
func (c *Comparator) Compare(ctx context.Context, input comparator.ComparisonInput) (string, error) {
	req := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: BuildComparisonPrompt(c.formatter.Format(input))},
		},
		MaxTokens:   MaxVerdictTokens,
		Temperature: VerdictTemperature,
	}

	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SystemInstruction establishes the objective-evaluator persona.
const SystemInstruction = "You are an expert evaluator tasked with comparing two responses to determine which is better. Be objective and analytical in your assessment."

// BuildComparisonPrompt creates the user prompt for a comparison.
func BuildComparisonPrompt(formattedInput string) string {
	return fmt.Sprintf(`Please analyze the following input message and two output responses, then determine which output is better.

%s

Please evaluate both outputs based on:
1. Relevance to the input message
2. Accuracy and correctness
3. Clarity and comprehensiveness
4. Helpfulness and usefulness

Respond with ONLY one of the following:
- "A" if Output A is better
- "B" if Output B is better
- "Both" if both are equally good
- "Neither" if both outputs are bad or if neither adequately addresses the input

Provide a brief explanation (1-2 sentences) for your choice.`, formattedInput)
}
