package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is the single failure type for every non-2xx response. Payload is
// the permissively-parsed response body: a map for JSON objects, a string for
// non-JSON bodies, nil for empty ones.
type APIError struct {
	Status    int
	Payload   any
	RequestID string
}

func (e *APIError) Error() string {
	detail := e.Detail()
	if detail == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, detail)
}

// Detail extracts the optional detail string from the payload, empty when the
// payload carries no usable detail.
func (e *APIError) Detail() string {
	switch payload := e.Payload.(type) {
	case string:
		return strings.TrimSpace(payload)
	case map[string]any:
		if d, ok := payload["detail"].(string); ok {
			return strings.TrimSpace(d)
		}
	}
	return ""
}

// requestID digs a request id out of the payload when the X-Request-ID header
// was absent; the server nests it either at the top level or under "error".
func (e *APIError) requestID() string {
	if e.RequestID != "" {
		return e.RequestID
	}
	payload, ok := e.Payload.(map[string]any)
	if !ok {
		return ""
	}
	if nested, ok := payload["error"].(map[string]any); ok {
		if id, ok := nested["request_id"].(string); ok && strings.TrimSpace(id) != "" {
			return id
		}
	}
	if id, ok := payload["request_id"].(string); ok && strings.TrimSpace(id) != "" {
		return id
	}
	return ""
}

// FormatError reduces any error to user-facing copy. For an APIError it
// prefers the payload's detail string, then falls back to
// "<fallback> (status N)."; the request id is appended when known so support
// can correlate.
func FormatError(err error, fallback string) string {
	if fallback == "" {
		fallback = "Request failed"
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	detail := apiErr.Detail()
	if detail == "" {
		if apiErr.Payload != nil {
			if raw, jsonErr := json.Marshal(apiErr.Payload); jsonErr == nil && string(raw) != "null" {
				detail = string(raw)
			}
		}
		if detail == "" {
			detail = fmt.Sprintf("%s (status %d).", fallback, apiErr.Status)
		}
	}
	if id := apiErr.requestID(); id != "" {
		return fmt.Sprintf("%s (request_id: %s)", detail, id)
	}
	return detail
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
