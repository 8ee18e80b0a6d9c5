// Package groupref resolves which groups an arbitrary content entity
// belongs to through its group-audience reference fields, and
// conversely which content references a given group.
//
// Unlike users, whose group relationships live in membership records,
// content relates to groups through direct reference fields described
// by the FieldProvider collaborator. The Resolver enumerates those
// fields, reads their referenced IDs, checks which targets still exist
// in the record store - dangling references are silently dropped - and
// memoizes the resulting type-to-IDs mapping in a tagged cache.
//
// Entities of the reserved user kind are rejected: user-to-group
// resolution belongs to the membership package.
package groupref
