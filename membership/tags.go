package membership

// ListTag is the cache tag carried by every cached membership listing.
// Mutation paths invalidate it when memberships are created or deleted,
// since new records can appear in any listing.
const ListTag = "og_membership_list"

// Tag returns the per-record cache tag for one membership. Mutation
// paths invalidate it when that specific membership changes.
func Tag(id string) string {
	return "og_membership:" + id
}

// tagsFor builds the tag set for a cached listing: the list tag plus a
// per-record tag for each contained membership.
func tagsFor(ids []string) []string {
	tags := make([]string, 0, len(ids)+1)
	tags = append(tags, ListTag)
	for _, id := range ids {
		tags = append(tags, Tag(id))
	}
	return tags
}
