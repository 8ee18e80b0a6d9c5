package health

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jonwraymond/audience/cache"
	"github.com/jonwraymond/audience/record"
)

// probeKey is the cache key used by the round-trip probe. It carries no
// tags, so no invalidation path ever evicts it mid-probe.
const probeKey = "health_probe"

var probeValue = []byte("ok")

// CacheCheck probes a cache store with a write/read round trip.
//
// The cache failing is Degraded, not Unhealthy: resolvers treat store
// failures as misses, so queries keep working, just slower.
func CacheCheck(store cache.Store) Checker {
	return NewCheckFunc("cache", func(ctx context.Context) Result {
		if err := store.Set(ctx, probeKey, probeValue, nil); err != nil {
			return Degraded("cache write failed", fmt.Errorf("%w: %v", ErrCacheUnavailable, err))
		}
		got, ok := store.Get(ctx, probeKey)
		if !ok || !bytes.Equal(got, probeValue) {
			return Degraded("cache read did not return probe value", ErrCacheUnavailable)
		}
		return Healthy("cache round trip ok")
	})
}

// RecordCheck probes a record store with a no-match filter query
// against the given kind. The query result does not matter; reaching
// the store does.
func RecordCheck(store record.Store, kind string) Checker {
	return NewCheckFunc("record", func(ctx context.Context) Result {
		_, err := store.Filter(ctx, kind, []record.Condition{
			record.Eq("id", ""),
		})
		if err != nil {
			return Unhealthy("record store query failed", err)
		}
		return Healthy("record store reachable")
	})
}
