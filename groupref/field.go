package groupref

// Field describes a group-audience reference field: a field on a host
// entity type/bundle whose values point at entities of a group type.
// An empty TargetBundles means the field may reference any bundle of
// the target type.
type Field struct {
	Name          string
	HostType      string
	HostBundle    string
	TargetType    string
	TargetBundles []string
}

// targetsBundle reports whether the field may reference the given
// bundle. An empty restriction matches every bundle.
func (f Field) targetsBundle(bundle string) bool {
	if len(f.TargetBundles) == 0 {
		return true
	}
	for _, b := range f.TargetBundles {
		if b == bundle {
			return true
		}
	}
	return false
}

// FieldProvider is the field metadata collaborator: it enumerates the
// group-audience fields matching the given restrictions. Empty
// arguments are unrestricted.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: enumeration is metadata-only and must not fail; an
//     unknown type simply yields no fields.
type FieldProvider interface {
	GroupAudienceFields(hostType, hostBundle, targetType, targetBundle string) []Field
}

// StaticProvider is a FieldProvider over a fixed field list, for
// deployments whose field metadata is known at startup and for tests.
type StaticProvider struct {
	fields []Field
}

// NewStaticProvider creates a provider over the given fields.
func NewStaticProvider(fields ...Field) *StaticProvider {
	return &StaticProvider{fields: fields}
}

// GroupAudienceFields returns the fields matching every non-empty
// restriction.
func (p *StaticProvider) GroupAudienceFields(hostType, hostBundle, targetType, targetBundle string) []Field {
	var out []Field
	for _, f := range p.fields {
		if hostType != "" && f.HostType != hostType {
			continue
		}
		if hostBundle != "" && f.HostBundle != hostBundle {
			continue
		}
		if targetType != "" && f.TargetType != targetType {
			continue
		}
		if targetBundle != "" && !f.targetsBundle(targetBundle) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Ensure StaticProvider implements FieldProvider
var _ FieldProvider = (*StaticProvider)(nil)
