// Package membership resolves the many-to-many relationship between
// users and group entities through membership records.
//
// A Membership joins one user to one group with a lifecycle state
// (active, pending, blocked) and an optional set of roles. The Resolver
// answers the common questions about that relation - which memberships a
// user holds, which groups they belong to, which members of a group hold
// a given role - and memoizes every answer in a tagged cache so repeat
// queries never touch the record store until a relevant tag is
// invalidated.
//
// The resolver only reads membership records. Creation, mutation, and
// deletion belong to external collaborators, which must invalidate the
// tags named by Tag and ListTag when they change the underlying records.
package membership
