// Package cache provides tagged query-result caching for group and
// membership resolution.
//
// It provides a Store interface with memory and Redis implementations,
// deterministic key derivation from unordered input sets, and a
// get-or-compute lookup flow. Entries live until one of their tags is
// invalidated; there is no TTL.
package cache
