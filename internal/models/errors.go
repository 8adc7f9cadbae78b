package models

import "errors"

// Domain errors shared by all handlers; internal/web maps them to HTTP
// statuses. Store layers translate driver errors into these so raw driver
// failures never reach clients.
var (
	ErrValidation   = errors.New("invalid or missing data")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("entity in wrong state")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("not authenticated")
	ErrUnavailable  = errors.New("store unavailable")
)
