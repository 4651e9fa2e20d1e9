package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation marks malformed or missing input, rejected before
	// any side effect.
	ErrValidation = errors.New("invalid input")
	// ErrEmptyCart rejects a checkout with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProductUnavailable rejects pricing of a product that is not ACTIVE.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrVariantUnavailable rejects pricing of a missing, inactive, or
	// foreign variant.
	ErrVariantUnavailable = errors.New("variant unavailable")
	// ErrInvalidCartContents aborts a checkout whose lines reference
	// missing or unpriceable catalog entries.
	ErrInvalidCartContents = errors.New("invalid cart contents")
	// ErrIllegalTransition rejects a status change not present in the
	// fulfillment transition table.
	ErrIllegalTransition = errors.New("illegal status transition")
)
