// Package health provides health probes for the resolution engine's
// dependencies: the tagged cache store and the record store.
//
// Correctness never depends on the cache - its failures degrade to
// misses - so a cache probe reports Degraded, not Unhealthy, when the
// store is unreachable. The record store is the source of truth; its
// probe failing means resolution queries will fail too.
//
// An Aggregator combines multiple probes into one composite status for
// embedding applications to expose however they expose health.
package health
