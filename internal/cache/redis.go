package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/apperrors"
)

// RedisStore backs the offline cache with redis. Records do not expire:
// staleness is judged by the freshness classifiers, and even a very old
// cache entry beats no data when the device is offline.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects a redis client for the offline cache.
func NewRedisStore(address, username, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &RedisStore{client: client}
}

// NewRedisStoreFromClient wraps an existing client, used by tests that run
// against miniredis or a shared connection.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache get failed")
		return "", false, apperrors.StorageFailure("get "+key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set failed")
		return apperrors.StorageFailure("set "+key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache remove failed")
		return apperrors.StorageFailure("remove "+key, err)
	}
	return nil
}

func (s *RedisStore) LastSync(ctx context.Context, domain string) (*time.Time, error) {
	raw, ok, err := s.Get(ctx, lastSyncKey(domain))
	if err != nil || !ok {
		return nil, err
	}
	return parseSyncTime(domain, raw)
}

func (s *RedisStore) RecordSync(ctx context.Context, domain string, at time.Time) error {
	return s.Set(ctx, lastSyncKey(domain), at.UTC().Format(time.RFC3339))
}

func (s *RedisStore) ClearSync(ctx context.Context, domain string) error {
	return s.Remove(ctx, lastSyncKey(domain))
}

// parseSyncTime treats an unreadable timestamp the same as an absent one;
// the freshness layer then reports critical rather than the flow crashing.
func parseSyncTime(domain, raw string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Warn().Str("domain", domain).Str("raw", raw).Msg("unparseable last-sync record, treating as absent")
		return nil, nil
	}
	return &t, nil
}
