package membership

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/audience/cache"
	"github.com/jonwraymond/audience/observe"
	"github.com/jonwraymond/audience/record"
)

// Operation names, part of every derived cache key. Explicit constants
// rather than anything inferred from the call site.
const (
	opMemberships        = "og_memberships"
	opGroupMembershipIDs = "og_group_membership_ids"
)

// Resolver answers membership queries against a record store, memoizing
// results in a tagged cache.
//
// Contract:
//   - Concurrency: safe for concurrent use; identical concurrent misses
//     are collapsed to a single record-store query.
//   - Errors: record-store failures propagate unchanged; cache failures
//     degrade to misses and are never surfaced.
type Resolver struct {
	records record.Store
	cache   cache.Store
	flight  singleflight.Group
	logger  observe.Logger
	metrics observe.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache sets the tagged cache store. Without one every query hits
// the record store.
func WithCache(store cache.Store) Option {
	return func(r *Resolver) { r.cache = store }
}

// WithLogger sets the structured logger.
func WithLogger(logger observe.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithMetrics sets the lookup metrics recorder.
func WithMetrics(metrics observe.Metrics) Option {
	return func(r *Resolver) { r.metrics = metrics }
}

// NewResolver creates a membership resolver over the given record store.
func NewResolver(records record.Store, opts ...Option) (*Resolver, error) {
	if records == nil {
		return nil, ErrNilRecordStore
	}

	r := &Resolver{
		records: records,
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// normalizeStates substitutes AllStates for an empty filter and returns
// the states as strings for key derivation and record-store conditions.
func normalizeStates(states []State) []string {
	if len(states) == 0 {
		states = AllStates
	}
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return cache.CanonicalSet(out)
}

func (r *Resolver) observeLookup(ctx context.Context, meta observe.QueryMeta, start time.Time, hit bool, err error) {
	duration := time.Since(start)
	r.metrics.RecordLookup(ctx, meta, duration, hit, err)

	logger := r.logger.WithQuery(meta)
	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		{Key: "cache_hit", Value: hit},
	}
	if err != nil {
		fields = append(fields, observe.Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "lookup failed", fields...)
		return
	}
	logger.Debug(ctx, "lookup completed", fields...)
}

// membershipIDs resolves the IDs of userID's memberships in the given
// states, from cache when possible.
func (r *Resolver) membershipIDs(ctx context.Context, userID string, states []State) ([]string, error) {
	stateVals := normalizeStates(states)
	key := cache.Key(opMemberships, userID, cache.SetPart(stateVals, nil))
	meta := observe.QueryMeta{Op: opMemberships, Kind: Kind, Key: key}
	start := time.Now()

	ids, hit, err := cache.Lookup(ctx, r.cache, &r.flight, key, func(ctx context.Context) ([]string, []string, error) {
		ids, err := r.records.Filter(ctx, Kind, []record.Condition{
			record.Eq("user_id", userID),
			record.In("state", stateVals...),
		})
		if err != nil {
			return nil, nil, err
		}
		return ids, tagsFor(ids), nil
	})

	r.observeLookup(ctx, meta, start, hit, err)
	return ids, err
}

// Memberships returns userID's memberships in the given states,
// hydrated to full records. An empty state filter means all states.
func (r *Resolver) Memberships(ctx context.Context, userID string, states []State) ([]*Membership, error) {
	ids, err := r.membershipIDs(ctx, userID, states)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	recs, err := r.records.LoadMany(ctx, Kind, ids)
	if err != nil {
		return nil, err
	}

	// Preserve ID order; records deleted since the listing was cached
	// are dropped.
	out := make([]*Membership, 0, len(recs))
	for _, id := range ids {
		if rec, ok := recs[id]; ok {
			out = append(out, fromRecord(rec))
		}
	}
	return out, nil
}

// UserGroupIDs returns the IDs of the groups userID belongs to in the
// given states, keyed by group entity type. Pure aggregation over
// Memberships; no separate cache entry.
func (r *Resolver) UserGroupIDs(ctx context.Context, userID string, states []State) (map[string][]string, error) {
	memberships, err := r.Memberships(ctx, userID, states)
	if err != nil {
		return nil, err
	}

	byType := make(map[string][]string)
	for _, m := range memberships {
		byType[m.GroupType] = append(byType[m.GroupType], m.GroupID)
	}
	for typ, ids := range byType {
		byType[typ] = cache.CanonicalSet(ids)
	}
	return byType, nil
}

// GroupMembershipIDsByRoleNames returns the IDs of group's memberships
// whose roles include any of roleNames, restricted to the given states.
//
// roleNames must be non-empty. If RoleAuthenticated is among them the
// role filter is dropped entirely: every membership of the group
// qualifies, since "authenticated member" subsumes any finer role.
// Other role names are expanded to composite role IDs scoped to the
// group's entity type and bundle.
func (r *Resolver) GroupMembershipIDsByRoleNames(ctx context.Context, group Group, roleNames []string, states []State) ([]string, error) {
	if len(roleNames) == 0 {
		return nil, ErrNoRoleNames
	}

	roleNames = cache.CanonicalSet(roleNames)
	authenticated := false
	for _, name := range roleNames {
		if name == RoleAuthenticated {
			authenticated = true
			break
		}
	}
	if authenticated {
		// Normalized before key derivation so both call forms share one
		// cache entry.
		roleNames = []string{RoleAuthenticated}
	}

	stateVals := normalizeStates(states)
	key := cache.Key(opGroupMembershipIDs,
		group.Type, group.ID,
		cache.SetPart(roleNames, nil),
		cache.SetPart(stateVals, nil),
	)
	meta := observe.QueryMeta{Op: opGroupMembershipIDs, Kind: Kind, Key: key}
	start := time.Now()

	ids, hit, err := cache.Lookup(ctx, r.cache, &r.flight, key, func(ctx context.Context) ([]string, []string, error) {
		conds := []record.Condition{
			record.Eq("group_type", group.Type),
			record.Eq("group_id", group.ID),
			record.In("state", stateVals...),
		}
		if !authenticated {
			roleIDs := make([]string, len(roleNames))
			for i, name := range roleNames {
				roleIDs[i] = RoleID{GroupType: group.Type, GroupBundle: group.Bundle, Name: name}.String()
			}
			conds = append(conds, record.In("roles", roleIDs...))
		}

		ids, err := r.records.Filter(ctx, Kind, conds)
		if err != nil {
			return nil, nil, err
		}
		return ids, tagsFor(ids), nil
	})

	r.observeLookup(ctx, meta, start, hit, err)
	return ids, err
}

// Membership returns userID's membership in group, if any. Absence is
// an expected outcome reported through the bool, never an error.
func (r *Resolver) Membership(ctx context.Context, group Group, userID string, states []State) (*Membership, bool, error) {
	memberships, err := r.Memberships(ctx, userID, states)
	if err != nil {
		return nil, false, err
	}

	for _, m := range memberships {
		if m.GroupType == group.Type && m.GroupID == group.ID {
			return m, true, nil
		}
	}
	return nil, false, nil
}

// IsMember reports whether userID has an active membership in group.
func (r *Resolver) IsMember(ctx context.Context, group Group, userID string) (bool, error) {
	return r.hasGroup(ctx, group, userID, StateActive)
}

// IsMemberPending reports whether userID has a pending membership in
// group.
func (r *Resolver) IsMemberPending(ctx context.Context, group Group, userID string) (bool, error) {
	return r.hasGroup(ctx, group, userID, StatePending)
}

// IsMemberBlocked reports whether userID is blocked in group.
func (r *Resolver) IsMemberBlocked(ctx context.Context, group Group, userID string) (bool, error) {
	return r.hasGroup(ctx, group, userID, StateBlocked)
}

func (r *Resolver) hasGroup(ctx context.Context, group Group, userID string, state State) (bool, error) {
	byType, err := r.UserGroupIDs(ctx, userID, []State{state})
	if err != nil {
		return false, err
	}
	for _, id := range byType[group.Type] {
		if id == group.ID {
			return true, nil
		}
	}
	return false, nil
}
