// Package errors holds error types shared across serveradmin.
package errors

import "fmt"

// WrappedError adds context to an underlying error.
type WrappedError struct {
	context string
	err     error
}

func NewWrapped(context string, err error) *WrappedError {
	return &WrappedError{context: context, err: err}
}

func (w *WrappedError) Error() string {
	return fmt.Sprintf("%s: %s", w.context, w.err.Error())
}

// Unwrap returns the underlying error.
func (w *WrappedError) Unwrap() error {
	return w.err
}
