package apperrors

import "errors"

// Workflow error categories. Services wrap these with context via %w;
// handlers map them onto HTTP status codes.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)
