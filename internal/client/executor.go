package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"

	"github.com/ledgerline/ledgerline/internal/apperrors"
)

// requestSpec describes one logical request. The executor may issue it twice:
// once with the current access token and, after a 401 and a successful
// refresh, exactly once more with the new token.
type requestSpec struct {
	method       string
	path         string
	body         any
	query        url.Values
	headers      map[string]string
	requiresAuth bool
}

// response is one HTTP exchange with the body fully read.
type response struct {
	status    int
	body      []byte
	requestID string
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

// send issues a single request attempt. bearer is attached as-is when
// non-empty; token selection happens in execute so each attempt reads the
// token current at that moment.
func (c *Client) send(ctx context.Context, spec requestSpec, bodyBytes []byte, bearer string) (response, error) {
	target := c.baseURL + spec.path
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	var reader io.Reader
	if bodyBytes != nil {
		reader = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, spec.method, target, reader)
	if err != nil {
		return response{}, fmt.Errorf("building request %s %s: %w", spec.method, spec.path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range spec.headers {
		req.Header.Set(k, v)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", spec.method, spec.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("reading response for %s %s: %w", spec.method, spec.path, err)
	}
	requestID := resp.Header.Get("X-Request-ID")
	return response{status: resp.StatusCode, body: raw, requestID: requestID}, nil
}

// execute runs the full request contract: bearer auth, one refresh+retry on
// 401, APIError on any remaining non-2xx. It returns the raw response body;
// callers decode it or hand it to parsePayload.
func (c *Client) execute(ctx context.Context, spec requestSpec) (json.RawMessage, error) {
	var bodyBytes []byte
	if spec.body != nil {
		var err error
		bodyBytes, err = json.Marshal(spec.body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body for %s %s: %w", spec.method, spec.path, err)
		}
	}

	bearer := ""
	if spec.requiresAuth {
		// Absence of a token is not an error here; the server decides.
		bearer = c.session.AccessToken()
	}

	resp, err := c.send(ctx, spec, bodyBytes, bearer)
	if err != nil {
		return nil, err
	}

	if spec.requiresAuth && resp.status == http.StatusUnauthorized {
		newAccess, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr == nil && newAccess != "" {
			resp, err = c.send(ctx, spec, bodyBytes, newAccess)
			if err != nil {
				return nil, err
			}
			// A second 401 falls through to the APIError below; there is no
			// second refresh, which is what breaks the loop.
		} else {
			c.logger.Warn("token refresh failed, surfacing original 401",
				slog.String("path", spec.path), slog.Any("error", refreshErr))
		}
	}

	if !resp.ok() {
		return nil, &APIError{Status: resp.status, Payload: parsePayload(resp.body), RequestID: resp.requestID}
	}
	return resp.body, nil
}

// call executes the request and decodes the response into out when both are
// non-empty. Decoded structs are validated at the boundary rather than
// trusted implicitly.
func (c *Client) call(ctx context.Context, spec requestSpec, out any) error {
	raw, err := c.execute(ctx, spec)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response for %s %s: %w", spec.method, spec.path, err)
	}
	return c.checkBoundary(spec.path, out)
}

// callList executes the request and normalizes either list shape into items.
func callList[T any](ctx context.Context, c *Client, spec requestSpec) ([]T, error) {
	raw, err := c.execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	return NormalizeList[T](raw)
}

// Execute is the untyped form of the request contract: empty bodies come back
// as nil, JSON as decoded values, and anything else as the raw string so the
// caller can still inspect it.
func (c *Client) Execute(ctx context.Context, method, path string, body any, requiresAuth bool) (any, error) {
	raw, err := c.execute(ctx, requestSpec{method: method, path: path, body: body, requiresAuth: requiresAuth})
	if err != nil {
		return nil, err
	}
	return parsePayload(raw), nil
}

// parsePayload decodes a body permissively: empty input is nil, valid JSON is
// its decoded value, and everything else is returned as a raw string.
func parsePayload(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return string(raw)
	}
	return decoded
}

// checkBoundary runs struct validation on decoded documents. Failing shape
// validation is a transport-class failure: the payload did not match the
// contract.
func (c *Client) checkBoundary(path string, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: response for %s failed boundary validation: %v", apperrors.ErrValidation, path, err)
	}
	return nil
}

// withQuery builds query params, skipping empty values the way the paths are
// built everywhere else.
func withQuery(params map[string]string) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
