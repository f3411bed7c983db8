package dataset

import "fmt"

// Error is returned when a query or a commit cannot be carried out.
type Error struct {
	Message string
}

// NewError returns a formatted dataset error.
func NewError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationError is returned when a value does not fit its attribute.
type ValidationError struct {
	Message string
}

// NewValidationError returns a formatted validation error.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}
