// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when registering with an already-used email.
// Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the caller. Handlers should translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as cancelling a completed appointment.
// Handlers should translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrQuotaExceeded is returned by the conversation quota consumer when the
// day's message allowance is already spent. The assistant endpoint maps
// this to an advisory reply, not an error status.
var ErrQuotaExceeded = errors.New("daily message quota exceeded")

// ErrCodeMismatch is returned when an email verification code is missing,
// expired or does not match.
var ErrCodeMismatch = errors.New("verification code invalid or expired")
