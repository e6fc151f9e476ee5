// Package apperr defines the error taxonomy shared by the service and HTTP layers.
//
// Errors are sentinel values meant to be wrapped with detail via fmt.Errorf
// ("%w: ...") and matched with errors.Is at the transport boundary, where they
// map onto HTTP status codes (409, 404, 401, 500).
package apperr

import "errors"

var (
	// ErrConflict signals a uniqueness violation (email/username already taken)
	// or a failed current-password check during a password change.
	ErrConflict = errors.New("conflict")

	// ErrNotFound signals that the referenced record does not exist or is not active.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized signals a credential mismatch or an invalid/expired token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConfiguration signals missing or invalid startup configuration.
	// It is fatal at process start and never recovered at runtime.
	ErrConfiguration = errors.New("configuration error")
)
