package groupref

import "errors"

// Sentinel errors for group reference resolution.
var (
	// ErrUserEntity is returned when a user entity is passed to group
	// reference resolution. Users relate to groups through membership
	// records, not audience fields.
	ErrUserEntity = errors.New("groupref: user entities resolve groups through memberships")

	// ErrNilRecordStore is returned by NewResolver when no record store
	// is provided.
	ErrNilRecordStore = errors.New("groupref: record store is nil")

	// ErrNilFieldProvider is returned by NewResolver when no field
	// provider is provided.
	ErrNilFieldProvider = errors.New("groupref: field provider is nil")
)
