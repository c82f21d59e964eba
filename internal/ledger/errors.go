package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCashBoxNotFound     = errors.New("cash box not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCurrencyInUse       = errors.New("currency has recorded transactions")
)

// ValidationError reports a rejected field on a write request. Handlers map
// it to a 400 with the message unchanged. Nothing is persisted when one is
// returned.
type ValidationError struct {
	Field   string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.err }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func wrapValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), err: err}
}

// PrecisionError marks an amount that cannot be read as a number in the
// box's currency. It travels inside a ValidationError on the amount field.
type PrecisionError struct {
	CurrencyCode string
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("invalid amount precision for %s", e.CurrencyCode)
}
