// Package common defines shared sentinel errors used across the
// synchronization layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrInvalidInput rejects malformed user input before it reaches a store.
	ErrInvalidInput = errors.New("invalid input")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage fault")

	// Remote store errors.
	ErrNetwork = errors.New("network fault")
	ErrAuth    = errors.New("auth fault")

	// Session errors. ErrNotAuthenticated means "no session at all" and is
	// treated by the reconciler as a silent no-op, not a failure.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("token expired")
)
