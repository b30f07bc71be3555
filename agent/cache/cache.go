// Package cache stores provider responses for idempotent tool calls.
// Values are opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
