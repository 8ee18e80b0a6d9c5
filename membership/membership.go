package membership

import (
	"github.com/google/uuid"

	"github.com/jonwraymond/audience/record"
)

// Kind is the record-store kind under which memberships are stored.
const Kind = "og_membership"

// TypeDefault is the membership type assigned when callers do not name
// one, e.g. self-service joins as opposed to admin-created memberships.
const TypeDefault = "default"

// State is the lifecycle state of a membership.
type State string

const (
	StateActive  State = "active"
	StatePending State = "pending"
	StateBlocked State = "blocked"
)

// AllStates lists every known membership state. Queries that pass no
// state filter behave as if they passed AllStates.
var AllStates = []State{StateActive, StatePending, StateBlocked}

// Group identifies a group entity as seen by the resolver: its entity
// type, bundle, and ID. The bundle participates in role expansion.
type Group struct {
	Type   string
	Bundle string
	ID     string
}

// RoleAuthenticated is the reserved role name meaning "any member
// regardless of role." When present in a role filter it subsumes every
// finer role and the role filter is dropped entirely.
const RoleAuthenticated = "authenticated"

// RoleID is a role scoped to a group entity type and bundle.
type RoleID struct {
	GroupType   string
	GroupBundle string
	Name        string
}

// String returns the composite role identifier,
// "{groupType}-{groupBundle}-{name}".
func (r RoleID) String() string {
	return r.GroupType + "-" + r.GroupBundle + "-" + r.Name
}

// Membership is one (user, group) relation.
type Membership struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	GroupType string   `json:"group_type"`
	GroupID   string   `json:"group_id"`
	State     State    `json:"state"`
	Roles     []string `json:"roles,omitempty"`
	Type      string   `json:"type"`
}

// RecordID implements record.Record.
func (m *Membership) RecordID() string {
	return m.ID
}

// RecordField implements record.Record, exposing the fields the
// resolver filters on.
func (m *Membership) RecordField(name string) []string {
	switch name {
	case "id":
		return []string{m.ID}
	case "user_id":
		return []string{m.UserID}
	case "group_type":
		return []string{m.GroupType}
	case "group_id":
		return []string{m.GroupID}
	case "state":
		return []string{string(m.State)}
	case "roles":
		return m.Roles
	case "type":
		return []string{m.Type}
	default:
		return nil
	}
}

// Create constructs a new, not-yet-persisted membership joining userID
// to group. The membership starts active with no roles; an empty typ
// defaults to TypeDefault. Persisting the record - and invalidating
// ListTag afterwards - is the caller's responsibility.
func Create(group Group, userID, typ string) *Membership {
	if typ == "" {
		typ = TypeDefault
	}
	return &Membership{
		ID:        uuid.NewString(),
		UserID:    userID,
		GroupType: group.Type,
		GroupID:   group.ID,
		State:     StateActive,
		Type:      typ,
	}
}

// fromRecord rebuilds a Membership from any record.Record. Records that
// already are *Membership pass through unchanged.
func fromRecord(rec record.Record) *Membership {
	if m, ok := rec.(*Membership); ok {
		return m
	}

	m := &Membership{ID: rec.RecordID()}
	if v := rec.RecordField("user_id"); len(v) > 0 {
		m.UserID = v[0]
	}
	if v := rec.RecordField("group_type"); len(v) > 0 {
		m.GroupType = v[0]
	}
	if v := rec.RecordField("group_id"); len(v) > 0 {
		m.GroupID = v[0]
	}
	if v := rec.RecordField("state"); len(v) > 0 {
		m.State = State(v[0])
	}
	if v := rec.RecordField("type"); len(v) > 0 {
		m.Type = v[0]
	}
	m.Roles = rec.RecordField("roles")
	return m
}

// Ensure Membership implements record.Record
var _ record.Record = (*Membership)(nil)
