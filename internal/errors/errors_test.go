package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("slow down")

	if err.Error() != "slow down" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "slow down")
	}

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}

	wrapped := fmt.Errorf("search failed: %w", err)
	if !IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned false for wrapped RateLimitError")
	}

	if IsRateLimitError(stdErrors.New("other")) {
		t.Fatalf("IsRateLimitError returned true for a plain error")
	}
}

func TestRateLimitErrorWithRetry_VariousDurations(t *testing.T) {
	tests := []struct {
		name            string
		duration        time.Duration
		expectedMessage string
	}{
		{
			name:            "no hint",
			duration:        0,
			expectedMessage: "rate limited",
		},
		{
			name:            "1 second",
			duration:        1 * time.Second,
			expectedMessage: "rate limited (retry after 1s)",
		},
		{
			name:            "2 minutes",
			duration:        2 * time.Minute,
			expectedMessage: "rate limited (retry after 2m0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRateLimitErrorWithRetry("rate limited", tt.duration)
			if err.Error() != tt.expectedMessage {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expectedMessage)
			}
			if err.RetryAfter != tt.duration {
				t.Fatalf("RetryAfter = %v, want %v", err.RetryAfter, tt.duration)
			}
		})
	}
}

func TestCatalogHTTPError_Messages(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		expected string
	}{
		{404, "", "Catalog endpoint not found - check remote.baseurl (HTTP 404)"},
		{403, "forbidden", "Catalog access denied (HTTP 403): forbidden"},
		{401, "", "Catalog access denied (HTTP 401)"},
		{502, " bad gateway\n", "Catalog server error (HTTP 502): bad gateway"},
		{400, "missing search", "Catalog request failed (HTTP 400): missing search"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := NewCatalogHTTPError(tt.status, tt.body)
			if err.Error() != tt.expected {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expected)
			}
			if err.StatusCode != tt.status {
				t.Fatalf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
		})
	}
}

func TestCatalogHTTPError_Temporary(t *testing.T) {
	if !NewCatalogHTTPError(503, "").Temporary() {
		t.Fatalf("503 should be temporary")
	}
	if NewCatalogHTTPError(404, "").Temporary() {
		t.Fatalf("404 should not be temporary")
	}
}

func TestCatalogHTTPError_LongBodyIsTruncated(t *testing.T) {
	err := NewCatalogHTTPError(500, strings.Repeat("x", 1000))

	if len(err.Body) != maxBodyExcerpt+len("...") {
		t.Fatalf("Body length = %d, want %d", len(err.Body), maxBodyExcerpt+3)
	}
}

func TestCatalogHTTPError_Wrapped(t *testing.T) {
	err := NewCatalogHTTPError(500, "boom")
	wrapped := stdErrors.Join(err, stdErrors.New("additional context"))

	if !IsCatalogHTTPError(wrapped) {
		t.Fatalf("IsCatalogHTTPError returned false for wrapped CatalogHTTPError")
	}
	if IsRateLimitError(wrapped) {
		t.Fatalf("IsRateLimitError returned true for CatalogHTTPError")
	}
}
