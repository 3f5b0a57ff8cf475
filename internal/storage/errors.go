package storage

import "errors"

var (
	// ErrUserNotFound is returned when a user profile is not found
	ErrUserNotFound = errors.New("user profile not found")

	// ErrPackageNotFound is returned when a credit package is not found
	ErrPackageNotFound = errors.New("package not found")

	// ErrAdminNotFound is returned when an admin account is not found
	ErrAdminNotFound = errors.New("admin account not found")
)
