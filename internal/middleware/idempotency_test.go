package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/middleware"
)

func newIdempotentRouter(handlerCalls *atomic.Int64, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := middleware.NewIdempotencyStore()
	r.POST("/receipts/", middleware.Idempotency(store), func(c *gin.Context) {
		n := handlerCalls.Add(1)
		c.JSON(status, gin.H{"execution": n})
	})
	return r
}

func post(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/receipts/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	var calls atomic.Int64
	r := newIdempotentRouter(&calls, http.StatusCreated)

	first := post(r, "key-1", `{"amount":"100.00"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := post(r, "key-1", `{"amount":"100.00"}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(), "replay must return the original body")
	assert.Equal(t, int64(1), calls.Load(), "the handler must run exactly once per key")
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	var calls atomic.Int64
	r := newIdempotentRouter(&calls, http.StatusCreated)

	require.Equal(t, http.StatusCreated, post(r, "key-1", `{"amount":"100.00"}`).Code)

	w := post(r, "key-1", `{"amount":"999.00"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "different request")
	assert.Equal(t, int64(1), calls.Load())
}

// Two posting endpoints share an identical `{}` body, so only the path tells
// them apart. Reusing a key across them must conflict, never hand back the
// first resource's response.
func TestIdempotency_RejectsKeyReuseAcrossResources(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls atomic.Int64
	r := gin.New()
	store := middleware.NewIdempotencyStore()
	handler := func(c *gin.Context) {
		calls.Add(1)
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": "posted"})
	}
	r.POST("/receipts/:id/post/", middleware.Idempotency(store), handler)

	reqA := httptest.NewRequest(http.MethodPost, "/receipts/receipt-a/post/", bytes.NewBufferString(`{}`))
	reqA.Header.Set("Idempotency-Key", "key-1")
	wA := httptest.NewRecorder()
	r.ServeHTTP(wA, reqA)
	require.Equal(t, http.StatusOK, wA.Code)

	reqB := httptest.NewRequest(http.MethodPost, "/receipts/receipt-b/post/", bytes.NewBufferString(`{}`))
	reqB.Header.Set("Idempotency-Key", "key-1")
	wB := httptest.NewRecorder()
	r.ServeHTTP(wB, reqB)
	assert.Equal(t, http.StatusConflict, wB.Code)
	assert.NotContains(t, wB.Body.String(), "receipt-a", "must not replay the other resource's response")
	assert.Equal(t, int64(1), calls.Load())
}

func TestIdempotency_PanickedHandlerReleasesKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls atomic.Int64
	r := gin.New()
	r.Use(gin.Recovery())
	store := middleware.NewIdempotencyStore()
	r.POST("/receipts/", middleware.Idempotency(store), func(c *gin.Context) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		c.JSON(http.StatusCreated, gin.H{"execution": calls.Load()})
	})

	first := post(r, "key-1", `{}`)
	require.Equal(t, http.StatusInternalServerError, first.Code)

	retry := post(r, "key-1", `{}`)
	assert.Equal(t, http.StatusCreated, retry.Code, "a crashed attempt must not leave the key reserved")
	assert.Equal(t, int64(2), calls.Load())
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	var calls atomic.Int64
	r := newIdempotentRouter(&calls, http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, post(r, "key-1", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "key-1", `{}`).Code)
	assert.Equal(t, int64(2), calls.Load(), "a failed attempt must not burn the key")
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	var calls atomic.Int64
	r := newIdempotentRouter(&calls, http.StatusCreated)

	post(r, "", `{}`)
	post(r, "", `{}`)
	assert.Equal(t, int64(2), calls.Load())
}

func TestIdempotency_DistinctKeysExecuteIndependently(t *testing.T) {
	var calls atomic.Int64
	r := newIdempotentRouter(&calls, http.StatusCreated)

	post(r, "key-1", `{"amount":"1"}`)
	post(r, "key-2", `{"amount":"1"}`)
	assert.Equal(t, int64(2), calls.Load())
}
