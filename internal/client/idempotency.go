package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the key on money-moving mutations: receipt and
// vendor-payment create and post. No other endpoint sends it.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyKey identifies one logical mutation attempt. The caller holds
// the key for the lifetime of that attempt: a user-level retry of the same
// action reuses it so the server can deduplicate, while a new action of the
// same kind mints a new one. Create and post are distinct actions and never
// share a key.
type IdempotencyKey string

func (k IdempotencyKey) String() string { return string(k) }

// NewIdempotencyKey mints a key for the given scope (e.g. "receipt-create").
// Scope plus nanosecond timestamp plus a UUID makes collisions across
// processes vanishingly unlikely; the value is opaque to the server beyond
// equality.
func NewIdempotencyKey(scope string) IdempotencyKey {
	return IdempotencyKey(fmt.Sprintf("%s-%d-%s", scope, time.Now().UnixNano(), uuid.NewString()))
}
