package comparator

import "fmt"

// LoadReason identifies why loading a file failed.
type LoadReason string

// Load failure reasons.
const (
	FileNotFound   LoadReason = "not_found"
	FileEmpty      LoadReason = "empty"
	FileUnreadable LoadReason = "unreadable"
)

// LoadError describes a failure to load content from a file.
type LoadError struct {
	Path   string     // The path that failed to load
	Reason LoadReason // Why the load failed
	Err    error      // Underlying cause (nil for not_found/empty)
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch e.Reason {
	case FileNotFound:
		return fmt.Sprintf("file not found: %s", e.Path)
	case FileEmpty:
		return fmt.Sprintf("file %s is empty", e.Path)
	case FileUnreadable:
		return fmt.Sprintf("error reading file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("error loading file %s", e.Path)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}
