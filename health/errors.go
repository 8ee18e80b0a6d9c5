package health

import "errors"

var (
	// ErrCheckTimeout indicates a probe did not complete in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no probe is registered under the
	// requested name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrCacheUnavailable indicates the cache probe's write/read round
	// trip failed.
	ErrCacheUnavailable = errors.New("health: cache store unavailable")
)
