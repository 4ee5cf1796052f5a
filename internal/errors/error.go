package errors

import (
	"errors"
)

var (
	ErrTokenInvalid         = errors.New("invalid session token")
	ErrEmptySubject         = errors.New("missing subject")
	ErrSessionMissing       = errors.New("missing session")
	ErrSnapshotNotFound     = errors.New("cart snapshot not found")
	ErrSnapshotCorrupted    = errors.New("cart snapshot is corrupted")
	ErrUnknownStorage       = errors.New("unknown storage backend")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCheckoutUnavailable  = errors.New("order submission endpoint is not configured")
	ErrOrderSubmission      = errors.New("order submission rejected")
	ErrEmptyProductID       = errors.New("missing product id")
	ErrInvalidCustomization = errors.New("invalid customization")
)
