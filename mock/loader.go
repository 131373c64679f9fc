package mock

import (
	comparator "github.com/subrat-kp/response-comparator"
)

// Compile-time interface verification.
var _ comparator.ContentLoader = (*ContentLoader)(nil)

// ContentLoader is a mock implementation of comparator.ContentLoader.
type ContentLoader struct {
	LoadFn func(path string) (string, error)
}

func (l *ContentLoader) Load(path string) (string, error) {
	return l.LoadFn(path)
}
