package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/apperrors"
	"github.com/ledgerline/ledgerline/internal/dto"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL), srv
}

func TestExecute_RefreshAndRetryOn401(t *testing.T) {
	var refreshCalls, resourceCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var req dto.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refresh-0", req.Refresh)
		json.NewEncoder(w).Encode(dto.RefreshResponse{Access: "access-1", Refresh: "refresh-1"})
	})
	mux.HandleFunc("GET /things/", func(w http.ResponseWriter, r *http.Request) {
		resourceCalls.Add(1)
		switch r.Header.Get("Authorization") {
		case "Bearer access-1":
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	c, _ := newTestClient(t, mux)
	c.Session().SetTokens("access-0", "refresh-0")

	raw, err := c.execute(context.Background(), requestSpec{method: http.MethodGet, path: "/things/", requiresAuth: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	assert.Equal(t, int64(1), refreshCalls.Load())
	assert.Equal(t, int64(2), resourceCalls.Load(), "expected the original attempt plus exactly one retry")
	assert.Equal(t, "access-1", c.Session().AccessToken())
	assert.Equal(t, "refresh-1", c.Session().RefreshToken(), "rotated refresh token must be kept")
}

func TestExecute_SecondUnauthorizedIsNotRetriedAgain(t *testing.T) {
	var refreshCalls, resourceCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(dto.RefreshResponse{Access: "access-1"})
	})
	mux.HandleFunc("GET /things/", func(w http.ResponseWriter, r *http.Request) {
		resourceCalls.Add(1)
		w.Header().Set("X-Request-ID", "req-42")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"still not allowed"}`))
	})

	c, _ := newTestClient(t, mux)
	c.Session().SetTokens("stale", "refresh-0")

	_, err := c.execute(context.Background(), requestSpec{method: http.MethodGet, path: "/things/", requiresAuth: true})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "still not allowed", apiErr.Detail())
	assert.Equal(t, "req-42", apiErr.RequestID)

	assert.Equal(t, int64(1), refreshCalls.Load(), "a second 401 must not trigger a second refresh")
	assert.Equal(t, int64(2), resourceCalls.Load())
}

func TestExecute_FailedRefreshSurfacesOriginal401AndEndsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("GET /things/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})

	c, _ := newTestClient(t, mux)
	c.Session().SetTokens("stale", "dead-refresh")

	_, err := c.execute(context.Background(), requestSpec{method: http.MethodGet, path: "/things/", requiresAuth: true})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, c.Session().Authenticated(), "failed refresh must clear the session")
}

func TestExecute_NoRefreshWithoutRefreshToken(t *testing.T) {
	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("GET /things/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _ := newTestClient(t, mux)
	c.Session().SetTokens("stale", "")

	_, err := c.execute(context.Background(), requestSpec{method: http.MethodGet, path: "/things/", requiresAuth: true})
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, int64(0), refreshCalls.Load())
}

func TestRefresh_SingleFlightUnderConcurrency(t *testing.T) {
	var refreshCalls atomic.Int64
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		<-release // hold the exchange open so all callers pile up on it
		json.NewEncoder(w).Encode(dto.RefreshResponse{Access: "access-1", Refresh: "refresh-1"})
	})
	mux.HandleFunc("GET /things/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer access-1" {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _ := newTestClient(t, mux)
	c.Session().SetTokens("stale", "refresh-0")

	const callers = 3
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.execute(context.Background(), requestSpec{method: http.MethodGet, path: "/things/", requiresAuth: true})
		}(i)
	}

	// Let every goroutine hit its 401 and attach to the held-open exchange
	// before it settles.
	require.Eventually(t, func() bool { return refreshCalls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int64(1), refreshCalls.Load(), "concurrent 401s must share one refresh exchange")
}

func TestParsePayload(t *testing.T) {
	assert.Nil(t, parsePayload(nil))
	assert.Nil(t, parsePayload([]byte("   ")))
	assert.Equal(t, "plain text body", parsePayload([]byte("plain text body")))

	decoded := parsePayload([]byte(`{"detail":"no"}`))
	payload, ok := decoded.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no", payload["detail"])

	list, ok := parsePayload([]byte(`[1,2]`)).([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestCheckBoundary(t *testing.T) {
	c := New("http://example.invalid")

	type doc struct {
		ID string `validate:"required"`
	}
	err := c.checkBoundary("/things/", &doc{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.NoError(t, c.checkBoundary("/things/", &doc{ID: "a"}))
	// Non-struct targets are skipped, not failed.
	var n int
	assert.NoError(t, c.checkBoundary("/things/", &n))
}

func TestWithQuery_SkipsEmpty(t *testing.T) {
	q := withQuery(map[string]string{"status": "draft", "type": ""})
	assert.Equal(t, "draft", q.Get("status"))
	_, present := q["type"]
	assert.False(t, present)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://api.example/api/v1/")
	assert.False(t, strings.HasSuffix(c.baseURL, "/"))
}
