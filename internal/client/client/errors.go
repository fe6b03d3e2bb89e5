package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the directory service.
type APIError struct {
	Op     string
	Status int
	// Message is the server's "error" field, empty when the body had none.
	Message string
	// Redirected is set when the failure tore the session down and sent the
	// console to the login view.
	Redirected bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// Unwrap lets callers match authorization failures with errors.Is.
func (e *APIError) Unwrap() error {
	if isAuthFailure(e.Status) {
		return ErrUnauthorized
	}
	return nil
}

func isAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Message returns the server-supplied message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Redirected reports whether err already caused a forced logout.
func Redirected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Redirected
}
