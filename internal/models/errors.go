package models

import "errors"

// Error taxonomy. Callers wrap these with fmt.Errorf("%w: ...") and test
// with errors.Is.
var (
	// ErrInvalidInput covers malformed or missing fields, non-positive totals,
	// empty participant lists and zero total weight.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidation means supplied shares do not reconcile with the total,
	// or a trip mixes currencies.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means a referenced split, participant or settlement is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is an illegal settlement or payment status transition.
	ErrInvalidState = errors.New("invalid state")
)
