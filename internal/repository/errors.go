// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not a
// participant of the chat they are posting to, while ErrConflict
// signals that an operation cannot proceed due to existing dependent
// records.  Appointment lifecycle errors live in the appointment
// package instead, next to the rules that raise them.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or participate in.  Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state.  Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
