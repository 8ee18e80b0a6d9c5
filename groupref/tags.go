package groupref

// ListTag returns the cache tag meaning "the set of records of this
// kind may have changed," including records appearing or disappearing.
func ListTag(kind string) string {
	return kind + "_list"
}

// EntityTag returns the per-entity cache tag. Mutation paths invalidate
// it when the entity itself changes, e.g. its reference fields.
func EntityTag(kind, id string) string {
	return kind + ":" + id
}
