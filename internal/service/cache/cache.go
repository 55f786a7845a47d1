package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// BytesCache stores raw response bodies with a TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a stable cache key from a route prefix and a request payload.
// Requests that marshal to the same JSON share a key.
func Key(prefix string, payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "signallab:" + prefix + ":" + hex.EncodeToString(sum[:16]), nil
}
