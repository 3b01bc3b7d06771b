package entity

import "errors"

// Business-rule errors shared across the petty-cash core.
// Services return these wrapped with fmt.Errorf("...: %w", err) so callers
// can match with errors.Is; the core never formats user-facing text.
var (
	// ErrValidation is returned when input fails a business validation rule,
	// e.g. submitting a claim without any attachment.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds is returned when a deduction would take a wallet
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// ErrLimitExceeded is returned when a credit would push a wallet balance
	// above its configured limit.
	ErrLimitExceeded = errors.New("wallet balance limit exceeded")

	// ErrInvalidStateTransition is returned when an operation is attempted
	// from a state that does not permit it.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrNotFound is returned when the record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrIntegrityViolation is returned when an operation would break a
	// structural invariant, e.g. deleting a wallet with a nonzero balance.
	ErrIntegrityViolation = errors.New("integrity violation")
)
