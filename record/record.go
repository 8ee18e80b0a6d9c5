package record

import (
	"context"
	"errors"
)

// Sentinel errors for record store operations.
var (
	ErrNilStore = errors.New("record: store is nil")
)

// Record is a stored entity as seen by the resolvers. Field access is
// string-valued and multi-valued so reference fields and role sets can
// be matched without the store knowing their concrete types.
type Record interface {
	// RecordID returns the record's unique identifier within its kind.
	RecordID() string

	// RecordField returns the values of the named field. Unknown fields
	// return nil.
	RecordField(name string) []string
}

// Condition restricts a Filter query to records whose field holds at
// least one of the given values. Multiple conditions are combined by
// logical AND.
type Condition struct {
	Field  string
	Values []string
}

// In is shorthand for a field-in-set condition.
func In(field string, values ...string) Condition {
	return Condition{Field: field, Values: values}
}

// Eq is shorthand for a field-equality condition.
func Eq(field, value string) Condition {
	return Condition{Field: field, Values: []string{value}}
}

// Store is the interface to the underlying entity storage.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods should honor cancellation/deadlines.
//   - Errors: transient failures propagate unchanged; no retries happen
//     at this layer. LoadMany silently omits IDs that no longer exist.
type Store interface {
	// Filter returns the IDs of all records of the given kind matching
	// every condition.
	Filter(ctx context.Context, kind string, conds []Condition) ([]string, error)

	// LoadMany returns the records of the given kind by ID. Missing IDs
	// are omitted from the result, never errors.
	LoadMany(ctx context.Context, kind string, ids []string) (map[string]Record, error)
}
