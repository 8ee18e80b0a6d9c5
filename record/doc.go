// Package record defines the narrow contract the resolvers use to query
// the underlying entity storage: filter-by-field queries returning ID
// sets, and bulk load-by-ID.
//
// The storage itself is an external collaborator; this package provides
// the interface, a fixture-friendly in-memory implementation, and a
// generic Item record for callers without their own record types.
package record
