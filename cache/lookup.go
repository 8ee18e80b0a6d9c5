package cache

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces a query result together with the invalidation
// tags the cached entry must carry. Tags depend on the computed result
// (per-record tags), so they are returned alongside the value.
type ComputeFunc[T any] func(ctx context.Context) (T, []string, error)

// Lookup is the get-or-compute flow shared by all resolvers.
//
// On hit, the cached value is decoded and returned without calling
// compute. On miss, compute runs, the result is cached - including empty
// results, so absence reliably means "miss" - and returned. Compute
// errors are never cached. Concurrent misses for the same key are
// collapsed through the singleflight group: all callers receive one
// computation's result, which is safe because every caller computes the
// identical value from the identical inputs.
//
// A nil store or group disables the corresponding behavior; Lookup then
// degrades to a plain computation. Set failures are ignored - the next
// call recomputes.
func Lookup[T any](ctx context.Context, store Store, group *singleflight.Group, key string, compute ComputeFunc[T]) (T, bool, error) {
	var zero T

	if store != nil {
		if data, ok := store.Get(ctx, key); ok {
			var out T
			if err := json.Unmarshal(data, &out); err == nil {
				return out, true, nil
			}
			// Undecodable entry - fall through and recompute
		}
	}

	fill := func() (any, error) {
		value, tags, err := compute(ctx)
		if err != nil {
			return zero, err
		}
		if store != nil {
			if data, err := json.Marshal(value); err == nil {
				_ = store.Set(ctx, key, data, tags)
			}
		}
		return value, nil
	}

	if group == nil {
		v, err := fill()
		if err != nil {
			return zero, false, err
		}
		return v.(T), false, nil
	}

	v, err, _ := group.Do(key, fill)
	if err != nil {
		return zero, false, err
	}
	return v.(T), false, nil
}
