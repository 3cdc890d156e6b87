package domain

import (
	"errors"
	"fmt"
)

// Error classes. Specific errors wrap one of these so callers can match on
// either the class or the exact condition.
var (
	ErrAuth        = errors.New("authentication failed")
	ErrAmount      = errors.New("amount rejected")
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("already exists")
	ErrPersistence = errors.New("persistence failure")
)

var (
	ErrIdentityNotFound   = fmt.Errorf("%w: identity not found", ErrAuth)
	ErrSecretMismatch     = fmt.Errorf("%w: secret does not match", ErrAuth)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrValidation)
	ErrSessionInvalid     = errors.New("session invalid or expired")
	ErrWrongTool          = errors.New("session not valid for this tool")

	ErrInvalidAmount     = fmt.Errorf("%w: amount must be greater than zero", ErrAmount)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrAmount)
	ErrAmountPrecision   = fmt.Errorf("%w: amount must not have more than two decimal places", ErrAmount)

	ErrEmptyName        = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrNegativeQuantity = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrNegativePrice    = fmt.Errorf("%w: price must not be negative", ErrValidation)
	ErrPricePrecision   = fmt.Errorf("%w: price must not have more than two decimal places", ErrValidation)
	ErrInvalidThreshold = fmt.Errorf("%w: threshold must not be negative", ErrValidation)

	// ErrSessionAccountMissing means a live ledger session points at an
	// account the store no longer has. It is an internal fault, not a 404.
	ErrSessionAccountMissing = errors.New("session account missing from store")

	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrAccountExists = fmt.Errorf("account %w", ErrDuplicate)
	ErrUserExists    = fmt.Errorf("user %w", ErrDuplicate)
)

// PersistenceError reports a failed read or write against the backing store.
// The in-memory state has already been restored to the last durable write
// when a service returns it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps a store failure. Domain errors returned by adapters
// (not-found, duplicate) pass through unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
