// Package common defines sentinel errors and small helpers shared by the
// Venus server and CLI. Callers match the errors with errors.Is.
package common

import "errors"

var (
	// repository errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// upload errors
	ErrorTooLarge = errors.New("payload too large")
)
