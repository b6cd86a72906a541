package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Detail(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"object with detail", map[string]any{"detail": "Invoice is not draft"}, "Invoice is not draft"},
		{"object with padded detail", map[string]any{"detail": "  nope  "}, "nope"},
		{"object without detail", map[string]any{"message": "other"}, ""},
		{"non-string detail", map[string]any{"detail": 42.0}, ""},
		{"plain string body", "upstream timeout", "upstream timeout"},
		{"nil payload", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{Status: http.StatusBadRequest, Payload: tt.payload}
			assert.Equal(t, tt.want, err.Detail())
		})
	}
}

func TestAPIError_RequestIDDigging(t *testing.T) {
	// Header wins over payload.
	err := &APIError{
		Status:    500,
		RequestID: "hdr-1",
		Payload:   map[string]any{"request_id": "body-1"},
	}
	assert.Equal(t, "hdr-1", err.requestID())

	// Nested under "error" is preferred over the top level when both exist.
	err = &APIError{
		Status: 500,
		Payload: map[string]any{
			"request_id": "top-1",
			"error":      map[string]any{"request_id": "nested-1"},
		},
	}
	assert.Equal(t, "nested-1", err.requestID())

	err = &APIError{Status: 500, Payload: map[string]any{"request_id": "top-1"}}
	assert.Equal(t, "top-1", err.requestID())

	err = &APIError{Status: 500, Payload: "not json"}
	assert.Equal(t, "", err.requestID())
}

func TestFormatError(t *testing.T) {
	apiErr := &APIError{
		Status:    409,
		Payload:   map[string]any{"detail": "Idempotency-Key reused with a different request body", "request_id": "req-9"},
		RequestID: "",
	}
	got := FormatError(apiErr, "Could not create receipt")
	assert.Equal(t, "Idempotency-Key reused with a different request body (request_id: req-9)", got)

	// No detail falls back to the caller's copy plus the status.
	got = FormatError(&APIError{Status: 502}, "Could not create receipt")
	assert.Equal(t, "Could not create receipt (status 502).", got)

	// Wrapped APIError still unwraps.
	wrapped := fmt.Errorf("creating receipt: %w", apiErr)
	assert.Contains(t, FormatError(wrapped, ""), "Idempotency-Key reused")

	// Non-API errors get the fallback unchanged.
	assert.Equal(t, "Could not load", FormatError(errors.New("dial tcp: refused"), "Could not load"))
	assert.Equal(t, "Request failed", FormatError(errors.New("x"), ""))
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &APIError{Status: http.StatusNotFound})
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusConflict))
	assert.False(t, IsStatus(errors.New("other"), http.StatusNotFound))
}
