package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource already exists")
	ErrInternalServer = errors.New("internal server error")

	// Upstream users API errors
	ErrSourceUnavailable = errors.New("user source unavailable")

	// Directory view errors
	ErrViewNotFound = errors.New("view not found")
	ErrViewLoading  = errors.New("view is still loading")
)
