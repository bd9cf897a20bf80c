package helper

import "fmt"

// NewError wraps an error with the operation that failed.
// The returned error supports errors.Is/errors.As unwrapping.
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %v: %w", operation, err)
}
