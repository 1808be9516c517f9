package catalog

import (
	"errors"
	"fmt"
)

// ErrorType categorizes catalog errors
type ErrorType string

const (
	// ErrTypeMalformedEntry indicates a brand file entry that is not an object
	ErrTypeMalformedEntry ErrorType = "malformed_entry"

	// ErrTypeInvalidSkein indicates a skein rejected at the API boundary
	ErrTypeInvalidSkein ErrorType = "invalid_skein"
)

// MalformedEntryError reports a catalog entry that could not be read
type MalformedEntryError struct {
	Brand  string `json:"brand"`
	SKU    string `json:"sku,omitempty"`
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *MalformedEntryError) Error() string {
	if e.SKU == "" {
		return fmt.Sprintf("malformed catalog %q: %s", e.Brand, e.Reason)
	}
	return fmt.Sprintf("malformed entry %s/%s: %s", e.Brand, e.SKU, e.Reason)
}

// Type returns the error category
func (e *MalformedEntryError) Type() ErrorType {
	return ErrTypeMalformedEntry
}

// InvalidSkeinError reports a skein missing its identity
type InvalidSkeinError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *InvalidSkeinError) Error() string {
	return fmt.Sprintf("invalid skein field '%s': %s", e.Field, e.Message)
}

// Type returns the error category
func (e *InvalidSkeinError) Type() ErrorType {
	return ErrTypeInvalidSkein
}

// NewMalformedEntryError creates a malformed entry error
func NewMalformedEntryError(brand, sku, reason string) *MalformedEntryError {
	return &MalformedEntryError{Brand: brand, SKU: sku, Reason: reason}
}

// IsMalformedEntry checks if an error is a malformed entry error
func IsMalformedEntry(err error) bool {
	var me *MalformedEntryError
	return errors.As(err, &me)
}

// IsInvalidSkein checks if an error is an invalid skein error
func IsInvalidSkein(err error) bool {
	var ie *InvalidSkeinError
	return errors.As(err, &ie)
}

// Validate checks that a skein carries a brand and SKU
func Validate(s *Skein) error {
	if s == nil {
		return &InvalidSkeinError{Field: "skein", Message: "is nil"}
	}
	if NormalizeBrand(s.Brand) == "" {
		return &InvalidSkeinError{Field: "brand", Message: "is required"}
	}
	if s.SKU == "" {
		return &InvalidSkeinError{Field: "sku", Message: "is required"}
	}
	return nil
}
