package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches two domain errors by code so wrapped variants of a
// sentinel still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized         = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden            = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrPersistenceIntegrity = NewDomainError("PERSISTENCE_INTEGRITY", "Persisted state does not match the expected value")
)

// StockError carries the quantities behind an insufficient-stock
// rejection so callers can surface them without parsing the message.
type StockError struct {
	Available int64
	Required  int64
}

// Error implements the error interface
func (e *StockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d, Required: %d", e.Available, e.Required)
}

// Is reports this as an insufficient-stock domain error
func (e *StockError) Is(target error) bool {
	return ErrInsufficientStock.Is(target)
}

// NewStockError creates a stock error for the given quantities
func NewStockError(available, required int64) *StockError {
	return &StockError{Available: available, Required: required}
}

// StateError describes an illegal status transition
type StateError struct {
	From string
	To   string
}

// Error implements the error interface
func (e *StateError) Error() string {
	return fmt.Sprintf("Cannot transition from %s to %s", e.From, e.To)
}

// Is reports this as an invalid-state domain error
func (e *StateError) Is(target error) bool {
	return ErrInvalidState.Is(target)
}

// NewStateError creates a state error for the given transition
func NewStateError(from, to string) *StateError {
	return &StateError{From: from, To: to}
}
