package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a tagged cache backed by Redis, for deployments that
// share one cache between processes. Tag membership is tracked in Redis
// sets so invalidation stays selective. Invalidation remains the duty of
// whoever mutates the underlying records; the store adds no coherency
// protocol of its own.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed tagged cache. All keys are
// namespaced under the given prefix; "audience" is used when empty.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "audience"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) entryKey(key string) string {
	return s.prefix + ":entry:" + key
}

func (s *RedisStore) tagKey(tag string) string {
	return s.prefix + ":tag:" + tag
}

// Get retrieves a value. Any Redis failure is reported as a miss - the
// caller recomputes, and correctness never depends on the store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores a value with no expiry and records it under each tag's set.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tags []string) error {
	entry := s.entryKey(key)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, entry, value, 0)
	for _, tag := range tags {
		pipe.SAdd(ctx, s.tagKey(tag), entry)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate deletes every entry recorded under any of the given tags,
// then the tag sets themselves.
func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagSet := s.tagKey(tag)

		members, err := s.client.SMembers(ctx, tagSet).Result()
		if err != nil {
			return err
		}

		pipe := s.client.TxPipeline()
		if len(members) > 0 {
			pipe.Del(ctx, members...)
		}
		pipe.Del(ctx, tagSet)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Flush removes every key under this store's prefix, leaving other users
// of the same Redis database untouched.
func (s *RedisStore) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":*", 256).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
