// Package common defines the sentinel errors shared by all layers of the
// forum service. Callers match them with errors.Is; the HTTP adapter maps
// each one to a status code, so these kinds must never be collapsed into a
// generic failure on the way up.
package common

import "errors"

var (
	// Authentication errors. ErrInvalidCredentials is returned for both an
	// unknown email and a wrong password so a caller cannot probe which
	// emails exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or missing OTP code")

	// Authorization errors.
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("operation not permitted")

	// Resource errors.
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("comment limit reached")

	// Anything the store layer fails with that has no mapping above.
	ErrInternal = errors.New("internal error")
)
