package membership

import "errors"

// Sentinel errors for membership resolution.
var (
	// ErrNoRoleNames is returned when a role-filtered query is given an
	// empty role-name set. Callers must name at least one role, or use
	// RoleAuthenticated to match any member.
	ErrNoRoleNames = errors.New("membership: role names must not be empty")

	// ErrNilRecordStore is returned by NewResolver when no record store
	// is provided.
	ErrNilRecordStore = errors.New("membership: record store is nil")
)
