package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotAuthenticated is returned without touching the network when the
	// session holds no token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTransient wraps failures to reach the backend at all.
	ErrTransient = errors.New("backend unreachable")
)

// APIError is a non-2xx answer from the backend. Message is already the
// user-facing text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage picks the text to show for err.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, ErrTransient):
		return fallback + ": server unreachable"
	}
	return fallback
}
