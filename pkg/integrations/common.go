package integrations

import (
	"errors"
	"net/http"
	"time"
)

const (
	httpTimeout       = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
)

var (
	// ErrNotFound is returned when a package or resource doesn't exist (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse is returned when a 200 response body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidURL is returned when a request URL cannot be built.
	ErrInvalidURL = errors.New("invalid url")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
