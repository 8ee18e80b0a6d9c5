package groupref

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/audience/cache"
	"github.com/jonwraymond/audience/observe"
	"github.com/jonwraymond/audience/record"
)

// Operation names, part of every derived cache key.
const (
	opGroupIDs = "og_group_ids"
)

// Resolver answers group reference queries against a record store and
// a field metadata provider, memoizing results in a tagged cache.
//
// Contract:
//   - Concurrency: safe for concurrent use; identical concurrent misses
//     are collapsed to a single computation.
//   - Errors: record-store failures propagate unchanged; cache failures
//     degrade to misses. Dangling references are dropped, never errors.
type Resolver struct {
	records record.Store
	fields  FieldProvider
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

// NewResolver creates a group reference resolver over the given record
// store and field provider.
func NewResolver(records record.Store, fields FieldProvider, opts ...Option) (*Resolver, error) {
	if records == nil {
		return nil, ErrNilRecordStore
	}
	if fields == nil {
		return nil, ErrNilFieldProvider
	}

	r := &Resolver{
		records: records,
		fields:  fields,
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
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

// GroupIDs returns the IDs of the groups entity references through its
// group-audience fields, keyed by group entity type. groupType and
// groupBundle optionally restrict the result; empty means unrestricted.
//
// Only currently-existing groups are returned: referenced IDs whose
// records no longer exist are silently dropped. Entities of UserKind
// are rejected with ErrUserEntity.
func (r *Resolver) GroupIDs(ctx context.Context, entity Entity, groupType, groupBundle string) (map[string][]string, error) {
	if entity.EntityType() == UserKind {
		return nil, ErrUserEntity
	}

	key := cache.Key(opGroupIDs, entity.EntityType(), entity.EntityID(), groupType, groupBundle)
	meta := observe.QueryMeta{Op: opGroupIDs, Kind: entity.EntityType(), Key: key}
	start := time.Now()

	byType, hit, err := cache.Lookup(ctx, r.cache, &r.flight, key, func(ctx context.Context) (map[string][]string, []string, error) {
		byType, targetTypes, err := r.resolveGroupIDs(ctx, entity, groupType, groupBundle)
		if err != nil {
			return nil, nil, err
		}

		// A group disappearing or the entity's own fields changing both
		// invalidate the cached mapping.
		tags := []string{EntityTag(entity.EntityType(), entity.EntityID())}
		for _, typ := range targetTypes {
			tags = append(tags, ListTag(typ))
		}
		return byType, tags, nil
	})

	r.observeLookup(ctx, meta, start, hit, err)
	return byType, err
}

// resolveGroupIDs enumerates the entity's audience fields and
// existence-checks their referenced IDs. It returns the type-to-IDs
// mapping plus the distinct target types enumerated, for tagging.
func (r *Resolver) resolveGroupIDs(ctx context.Context, entity Entity, groupType, groupBundle string) (map[string][]string, []string, error) {
	fields := r.fields.GroupAudienceFields(entity.EntityType(), entity.EntityBundle(), groupType, "")

	byType := make(map[string][]string)
	var targetTypes []string
	seenTypes := make(map[string]bool)

	for _, field := range fields {
		if !seenTypes[field.TargetType] {
			seenTypes[field.TargetType] = true
			targetTypes = append(targetTypes, field.TargetType)
		}

		refs := entity.ReferencedIDs(field.Name)
		if len(refs) == 0 {
			continue
		}

		conds := []record.Condition{record.In("id", refs...)}
		if groupBundle != "" {
			conds = append(conds, record.Eq("bundle", groupBundle))
		}

		// Existence check: stale references fall out here.
		existing, err := r.records.Filter(ctx, field.TargetType, conds)
		if err != nil {
			return nil, nil, err
		}
		if len(existing) == 0 {
			continue
		}

		// Union, not overwrite - multiple fields may target one type.
		byType[field.TargetType] = append(byType[field.TargetType], existing...)
	}

	for typ, ids := range byType {
		byType[typ] = cache.CanonicalSet(ids)
	}
	sort.Strings(targetTypes)
	return byType, targetTypes, nil
}

// Groups returns the group records entity references, keyed by group
// entity type, hydrated in ID order.
func (r *Resolver) Groups(ctx context.Context, entity Entity, groupType, groupBundle string) (map[string][]record.Record, error) {
	byType, err := r.GroupIDs(ctx, entity, groupType, groupBundle)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]record.Record, len(byType))
	for typ, ids := range byType {
		recs, err := r.records.LoadMany(ctx, typ, ids)
		if err != nil {
			return nil, err
		}
		groups := make([]record.Record, 0, len(recs))
		for _, id := range ids {
			if rec, ok := recs[id]; ok {
				groups = append(groups, rec)
			}
		}
		if len(groups) > 0 {
			out[typ] = groups
		}
	}
	return out, nil
}

// GroupCount returns the number of groups entity references.
func (r *Resolver) GroupCount(ctx context.Context, entity Entity, groupType, groupBundle string) (int, error) {
	byType, err := r.GroupIDs(ctx, entity, groupType, groupBundle)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ids := range byType {
		count += len(ids)
	}
	return count, nil
}

// GroupContentIDs returns the IDs of the host entities referencing
// group through any matching audience field, keyed by host entity
// type. entityType optionally restricts the hosts considered.
//
// Not cached: field metadata enumeration is cheap relative to the
// entity queries, and hosts referencing a group change more often than
// the group's own membership surface.
func (r *Resolver) GroupContentIDs(ctx context.Context, group Entity, entityType string) (map[string][]string, error) {
	fields := r.fields.GroupAudienceFields(entityType, "", group.EntityType(), group.EntityBundle())

	byType := make(map[string][]string)
	for _, field := range fields {
		hosts, err := r.records.Filter(ctx, field.HostType, []record.Condition{
			record.Eq(field.Name, group.EntityID()),
		})
		if err != nil {
			return nil, err
		}
		if len(hosts) == 0 {
			continue
		}
		byType[field.HostType] = append(byType[field.HostType], hosts...)
	}

	for typ, ids := range byType {
		byType[typ] = cache.CanonicalSet(ids)
	}
	return byType, nil
}
