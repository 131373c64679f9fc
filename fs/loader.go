// Package fs provides a filesystem-backed content loader.
package fs

import (
	"os"
	"strings"

	comparator "github.com/subrat-kp/response-comparator"
)

// Compile-time interface verification.
var _ comparator.ContentLoader = (*Loader)(nil)

// Loader loads text content from files on disk.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path and returns its content with surrounding
// whitespace trimmed. A missing file, an unreadable file and a file whose
// trimmed content is empty are distinct failures.
func (l *Loader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &comparator.LoadError{Path: path, Reason: comparator.FileNotFound}
		}
		return "", &comparator.LoadError{Path: path, Reason: comparator.FileUnreadable, Err: err}
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", &comparator.LoadError{Path: path, Reason: comparator.FileEmpty}
	}

	return content, nil
}
