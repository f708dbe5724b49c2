package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// maxBodyExcerpt caps how much of a response body ends up in an error.
const maxBodyExcerpt = 200

// CatalogHTTPError represents a non-2xx response from the remote catalog
type CatalogHTTPError struct {
	Message    string
	StatusCode int
	Body       string // Excerpt of the response body if available
}

func (e *CatalogHTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// NewCatalogHTTPError creates a new catalog error for an HTTP status
func NewCatalogHTTPError(statusCode int, body string) *CatalogHTTPError {
	var message string
	switch {
	case statusCode == http.StatusNotFound:
		message = "Catalog endpoint not found - check remote.baseurl"
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		message = "Catalog access denied"
	case statusCode >= 500:
		message = "Catalog server error"
	default:
		message = "Catalog request failed"
	}

	body = strings.TrimSpace(body)
	if len(body) > maxBodyExcerpt {
		body = body[:maxBodyExcerpt] + "..."
	}

	return &CatalogHTTPError{
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
	}
}

// Temporary reports whether retrying the request later may succeed
func (e *CatalogHTTPError) Temporary() bool {
	return e.StatusCode >= 500
}

// IsCatalogHTTPError checks if error is a CatalogHTTPError
func IsCatalogHTTPError(err error) bool {
	var httpErr *CatalogHTTPError
	return stdErrors.As(err, &httpErr)
}
