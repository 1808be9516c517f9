package app

import (
	"errors"
	"fmt"

	"github.com/yildizm/skeincare/internal/catalog"
)

// ErrorType categorizes rejected session operations
type ErrorType string

const (
	ErrTypeSkeinExists   ErrorType = "skein_exists"
	ErrTypeSkeinNotFound ErrorType = "skein_not_found"
	ErrTypeClosed        ErrorType = "closed"
)

// SkeinError reports an operation that was refused for one skein
type SkeinError struct {
	Type    ErrorType
	Key     catalog.Key
	Message string
}

func (e *SkeinError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// Is matches another SkeinError of the same type
func (e *SkeinError) Is(target error) bool {
	t, ok := target.(*SkeinError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// NewSkeinExistsError reports a key collision on add or rename
func NewSkeinExistsError(key catalog.Key) *SkeinError {
	return &SkeinError{Type: ErrTypeSkeinExists, Key: key, Message: "skein already exists"}
}

// NewSkeinNotFoundError reports a missing catalog entry
func NewSkeinNotFoundError(key catalog.Key) *SkeinError {
	return &SkeinError{Type: ErrTypeSkeinNotFound, Key: key, Message: "skein not found"}
}

// ErrClosed is returned by mutations after Close
var ErrClosed = &SkeinError{Type: ErrTypeClosed, Message: "session is closed"}

// IsSkeinExists reports whether err is a key collision
func IsSkeinExists(err error) bool {
	var se *SkeinError
	return errors.As(err, &se) && se.Type == ErrTypeSkeinExists
}

// IsSkeinNotFound reports whether err is a missing skein
func IsSkeinNotFound(err error) bool {
	var se *SkeinError
	return errors.As(err, &se) && se.Type == ErrTypeSkeinNotFound
}
