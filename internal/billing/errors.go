package billing

import "errors"

var (
	// ErrProfileNotFound is returned when no billing profile exists for a
	// verified identity. The client must complete the sync flow first;
	// the engine deliberately does not auto-provision inline.
	ErrProfileNotFound = errors.New("user profile not found, please relogin")

	// ErrInsufficientCredit is returned when the stored balance is already
	// negative before the call. The balance is left untouched.
	ErrInsufficientCredit = errors.New("insufficient credits")
)
