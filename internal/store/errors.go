package store

import (
	"errors"
	"fmt"
)

// ErrorType categorizes persistence failures
type ErrorType string

const (
	ErrTypeRead    ErrorType = "read"
	ErrTypeWrite   ErrorType = "write"
	ErrTypeDecode  ErrorType = "decode"
	ErrTypeInvalid ErrorType = "invalid"
)

// FileError reports a failed read, write or decode of one file
type FileError struct {
	Type  ErrorType
	Op    string
	Path  string
	Cause error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// Is matches another FileError of the same type
func (e *FileError) Is(target error) bool {
	t, ok := target.(*FileError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func newFileError(errType ErrorType, op, path string, cause error) *FileError {
	return &FileError{Type: errType, Op: op, Path: path, Cause: cause}
}

// IsFileError reports whether err wraps a FileError
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}

// IsWriteError reports whether err is a failed write
func IsWriteError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe) && fe.Type == ErrTypeWrite
}

// RowError reports one rejected CSV row
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}
