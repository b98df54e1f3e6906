package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mnav-tracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisRecordKey = "mnav:last_known_good"

// RedisClient is the subset of redis.Client the store needs; tests swap in
// a fake.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps the record in Redis, for deployments without a writable
// filesystem. The record never expires; it is only ever overwritten.
type RedisStore struct {
	client RedisClient
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, r domain.Reading) error {
	data, err := json.Marshal(toRecord(r))
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.client.Set(ctx, redisRecordKey, data, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) (*domain.Reading, error) {
	data, err := s.client.Get(ctx, redisRecordKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return rec.reading(), nil
}

// parseRedisOptions accepts either a bare host:port or a redis:// URL.
func parseRedisOptions(addr string) (*redis.Options, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}
