package groupref

// UserKind is the reserved entity kind for users. Entities of this
// kind are rejected by GroupIDs.
const UserKind = "user"

// Entity is a content entity as seen by the resolver: identity plus
// read access to its reference fields.
type Entity interface {
	// EntityID returns the entity's ID.
	EntityID() string

	// EntityType returns the entity's kind, e.g. "node".
	EntityType() string

	// EntityBundle returns the entity's bundle within its kind.
	EntityBundle() string

	// ReferencedIDs returns the target IDs the named reference field
	// currently holds. Unknown fields return nil.
	ReferencedIDs(field string) []string
}

// Content is a plain Entity value, for callers whose entities are not
// backed by a richer type.
type Content struct {
	ID     string
	Type   string
	Bundle string
	Refs   map[string][]string
}

func (c *Content) EntityID() string     { return c.ID }
func (c *Content) EntityType() string   { return c.Type }
func (c *Content) EntityBundle() string { return c.Bundle }

func (c *Content) ReferencedIDs(field string) []string {
	return c.Refs[field]
}

// Ensure Content implements Entity
var _ Entity = (*Content)(nil)
