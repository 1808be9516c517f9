package updater

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of update-check error
type ErrorType string

const (
	// ErrTypeNetwork indicates the release API could not be reached
	ErrTypeNetwork ErrorType = "network"

	// ErrTypeStatus indicates a non-200 response
	ErrTypeStatus ErrorType = "status"

	// ErrTypeDecode indicates an unreadable response body
	ErrTypeDecode ErrorType = "decode"

	// ErrTypeVersion indicates a tag that is not a semantic version
	ErrTypeVersion ErrorType = "version"
)

// CheckError describes a failed update check
type CheckError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *CheckError) Error() string {
	parts := []string{fmt.Sprintf("update check: type=%s", e.Type)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is matches another CheckError of the same type
func (e *CheckError) Is(target error) bool {
	if ce, ok := target.(*CheckError); ok {
		return e.Type == ce.Type
	}
	return false
}

func newCheckError(errType ErrorType, message string, cause error) *CheckError {
	return &CheckError{Type: errType, Message: message, Cause: cause}
}

// IsErrorType reports whether err is a CheckError of the given type
func IsErrorType(err error, errType ErrorType) bool {
	var ce *CheckError
	return errors.As(err, &ce) && ce.Type == errType
}
