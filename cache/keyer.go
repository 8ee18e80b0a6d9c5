package cache

import (
	"sort"
	"strings"
)

// Key derivation for query-result caching.
//
// Contract:
// - Determinism: the same logical query must produce the same key,
//   regardless of call-site argument ordering or duplicate values.
// - Operation names are explicit constants passed by callers; nothing is
//   derived from the call site at runtime.

// KeySep joins the operation name and argument segments. SetSep joins
// the values inside a set-valued segment. The two are distinct so set
// contents can never collide with segment boundaries.
const (
	KeySep = ":"
	SetSep = "|"
)

// Key builds a cache key from an operation name and normalized argument
// segments. Set-valued arguments must be normalized with SetPart first.
// Format: <op>:<part>:<part>...
func Key(op string, parts ...string) string {
	if len(parts) == 0 {
		return op
	}
	return op + KeySep + strings.Join(parts, KeySep)
}

// SetPart normalizes a set-valued argument into a key segment. Empty
// inputs are substituted with defaults before normalization, so "no
// filter" and "all known values" derive the identical key. Duplicates
// are removed and values sorted ascending.
func SetPart(values, defaults []string) string {
	if len(values) == 0 {
		values = defaults
	}
	return strings.Join(CanonicalSet(values), SetSep)
}

// CanonicalSet returns the values deduplicated and sorted ascending by
// natural string order. The input slice is not modified.
func CanonicalSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Strings(out)
	return out
}
