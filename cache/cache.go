package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Store is the interface for tagged query-result caching.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use;
//     last-writer-wins on concurrent Set of the same key is acceptable.
//   - Lifetime: entries persist until a carried tag is invalidated or the
//     store is flushed. There is no TTL expiry.
//   - Errors: Get never errors; a store failure is reported as a miss so
//     that correctness never depends on cache availability.
type Store interface {
	// Get retrieves a cached value. Returns (nil, false) on miss,
	// after invalidation, or on store failure.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value associated with the given invalidation tags.
	// Callers must Set even when the computed result is empty, so that
	// absence reliably means "miss" rather than "empty".
	Set(ctx context.Context, key string, value []byte, tags []string) error

	// Invalidate removes every entry whose tag set contains any of the
	// given tags. Idempotent - unknown tags are ignored.
	Invalidate(ctx context.Context, tags ...string) error

	// Flush removes all entries. Intended for request-scoped resets in
	// server contexts, not for routine invalidation.
	Flush(ctx context.Context) error
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
