package service

import (
	"errors"
	"fmt"
)

// ErrInvalid marks request validation failures; the HTTP layer maps it to 400.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound marks lookups of absent records; the HTTP layer maps it to 404.
var ErrNotFound = errors.New("not found")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NotConfiguredError reports that push delivery cannot run because service
// credentials are absent. It aborts a dispatch sweep before any reminder is
// touched.
type NotConfiguredError struct {
	MissingEnv []string
}

func (e *NotConfiguredError) Error() string {
	return "Firebase Admin not configured"
}
