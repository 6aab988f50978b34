package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Moderation state errors
	ErrAlreadySuspended = errors.New("user is already suspended")
	ErrSelfSuspension   = errors.New("admins cannot suspend themselves")
	ErrTerminalStatus   = errors.New("status is terminal")
)
