package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// idempotencyRecord stores the outcome of a keyed mutation so replays return
// the original response instead of re-executing.
type idempotencyRecord struct {
	requestHash string
	status      int
	body        []byte
	contentType string
	done        bool
}

// IdempotencyStore keeps completed keyed responses. Keys are scoped by the
// caller-supplied header value; clients embed enough context in the key to
// keep it unique per logical operation.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*idempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: make(map[string]*idempotencyRecord)}
}

// replayWriter buffers the response body so the store can capture it after
// the handler runs.
type replayWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *replayWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency creates a Gin middleware enforcing the keyed-mutation contract:
// a repeated Idempotency-Key with an identical request (method, path and
// body) replays the stored response; the same key on a different request is
// rejected with a 409. Requests without the header pass through unchanged.
func Idempotency(store *IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stream read error"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		// The hash covers method and path as well as the body: every
		// `.../post/` body is `{}`, so the body alone cannot tell two
		// documents apart.
		hash := sha256.New()
		io.WriteString(hash, c.Request.Method)
		io.WriteString(hash, " ")
		io.WriteString(hash, c.Request.URL.Path)
		io.WriteString(hash, "\n")
		hash.Write(bodyBytes)
		reqHash := hex.EncodeToString(hash.Sum(nil))

		store.mu.Lock()
		if rec, ok := store.records[key]; ok {
			store.mu.Unlock()
			if rec.requestHash != reqHash {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"detail":     "Idempotency-Key reused with a different request",
					"request_id": GetRequestIDFromCtx(c.Request.Context()),
				})
				return
			}
			if rec.done {
				GetLoggerFromCtx(c.Request.Context()).Info("Replaying idempotent response", "idempotency_key", key)
				c.Header("Content-Type", rec.contentType)
				c.Writer.WriteHeader(rec.status)
				c.Writer.Write(rec.body)
				c.Abort()
				return
			}
			// Reserved but not finished: a concurrent duplicate. Treat as a
			// conflict rather than executing the mutation twice.
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": "Request with this Idempotency-Key is in progress"})
			return
		}
		store.records[key] = &idempotencyRecord{requestHash: reqHash}
		store.mu.Unlock()

		writer := &replayWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		// Completion must run even when the handler panics and a recovery
		// middleware takes over; a reserved key left behind would 409 every
		// retry forever.
		defer func() {
			store.mu.Lock()
			defer store.mu.Unlock()
			status := writer.Status()
			if writer.Written() && status >= 200 && status < 300 {
				store.records[key] = &idempotencyRecord{
					requestHash: reqHash,
					status:      status,
					body:        writer.buf.Bytes(),
					contentType: writer.Header().Get("Content-Type"),
					done:        true,
				}
			} else {
				// Failed mutations release the key so the client may retry.
				delete(store.records, key)
			}
		}()

		c.Next()
	}
}
