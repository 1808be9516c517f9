package library

import (
	"errors"
	"fmt"
)

// ErrTypeInvalidCount indicates a count that is not an integer
const ErrTypeInvalidCount = "invalid_count"

// InvalidCountError reports a rejected count value
type InvalidCountError struct {
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid count %q: %s", e.Value, e.Message)
}

// NewInvalidCountError creates an invalid count error
func NewInvalidCountError(value, message string) *InvalidCountError {
	return &InvalidCountError{Value: value, Message: message}
}

// IsInvalidCount checks if an error is an invalid count error
func IsInvalidCount(err error) bool {
	var ie *InvalidCountError
	return errors.As(err, &ie)
}
