// Package apperr defines the error categories surfaced by the catalog
// and order services. Handlers map them onto HTTP status codes with
// errors.As; everything else is treated as an internal error.
package apperr

import "fmt"

// ValidationError reports bad input shape or values.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

func NotFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness or state conflict, e.g. a duplicate
// item name or an operation on an order that is not pending.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports an order quantity exceeding the
// remaining tracked stock of an item.
type InsufficientStockError struct {
	ItemName  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: only %d available", e.ItemName, e.Available)
}
