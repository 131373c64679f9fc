package mock

import (
	"context"

	comparator "github.com/subrat-kp/response-comparator"
)

// Compile-time interface verification.
var _ comparator.Comparator = (*Comparator)(nil)

// Comparator is a mock implementation of comparator.Comparator.
type Comparator struct {
	CompareFn func(ctx context.Context, input comparator.ComparisonInput) (string, error)
}

func (c *Comparator) Compare(ctx context.Context, input comparator.ComparisonInput) (string, error) {
	return c.CompareFn(ctx, input)
}
