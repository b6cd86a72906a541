package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Paginated is the envelope list endpoints may wrap their results in.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NormalizeList collapses the two list response shapes, a bare JSON array or
// a pagination envelope, into one slice. Resource clients route every list
// response through here so callers never special-case either shape.
func NormalizeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list response: %w", err)
		}
		return items, nil
	}
	var page Paginated[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("decoding paginated response: %w", err)
	}
	return page.Results, nil
}
