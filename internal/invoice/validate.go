package invoice

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQueue      = errors.New("no document to submit")
	ErrMissingTaxID    = errors.New("missing supplier tax id")
	ErrMalformedTaxID  = errors.New("malformed supplier tax id")
	ErrNoItems         = errors.New("no items")
	ErrIncompleteItems = errors.New("items without a name")
)

// ValidationError blocks one submission attempt. Message is meant for the
// operator; Err is one of the sentinels above.
type ValidationError struct {
	Err     error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var validationMessages = map[error]string{
	ErrEmptyQueue:      "❌ There is no document to submit",
	ErrMissingTaxID:    "❌ Enter the supplier tax ID (INN)",
	ErrMalformedTaxID:  "❌ Invalid tax ID\n\nThe tax ID must contain 10 or 12 digits",
	ErrNoItems:         "❌ There are no items to submit",
	ErrIncompleteItems: "❌ Some items have no name",
}

// NewValidationError wraps a sentinel with its operator message
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err, Message: validationMessages[err]}
}

// IsValidTaxID reports whether s, once trimmed, is exactly 10 or 12 ASCII
// digits. No checksum is verified.
func IsValidTaxID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 10 && len(s) != 12 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// HasCompleteItems reports whether items is non-empty and every item has a
// non-blank name
func HasCompleteItems(items []LineItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return false
		}
	}
	return true
}

// Validate checks a record before submission, reporting the first problem
// in the order the operator is expected to fix them
func Validate(r Record) error {
	taxID := strings.TrimSpace(r.SupplierTaxID)
	if taxID == "" {
		return NewValidationError(ErrMissingTaxID)
	}
	if !IsValidTaxID(taxID) {
		return NewValidationError(ErrMalformedTaxID)
	}
	if len(r.Items) == 0 {
		return NewValidationError(ErrNoItems)
	}
	if !HasCompleteItems(r.Items) {
		return NewValidationError(ErrIncompleteItems)
	}
	return nil
}
