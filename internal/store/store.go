// Package store persists the most recent non-fallback mNAV reading so the
// service can degrade gracefully across restarts and provider outages.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"mnav-tracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Store holds exactly one record: the last known good reading. Save
// overwrites, Load returns (nil, nil) when no record exists yet.
type Store interface {
	Save(ctx context.Context, r domain.Reading) error
	Load(ctx context.Context) (*domain.Reading, error)
}

// record is the durable wire form. It must round-trip exactly; IsFallback is
// deliberately absent because only non-fallback readings are ever persisted.
type record struct {
	Value     float64       `json:"value"`
	Source    domain.Source `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
}

func toRecord(r domain.Reading) record {
	return record{Value: r.Value, Source: r.Source, FetchedAt: r.FetchedAt}
}

func (rec record) reading() *domain.Reading {
	return &domain.Reading{Value: rec.Value, Source: rec.Source, FetchedAt: rec.FetchedAt}
}

// Config controls which backend Open constructs.
type Config struct {
	Driver   string // "file" (default) or "redis"
	FilePath string
	RedisURL string
}

// Open constructs a Store based on the given configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	drv := cfg.Driver
	if drv == "" {
		drv = "file"
	}
	switch drv {
	case "file":
		log.Printf("store: using flat file at %s", cfg.FilePath)
		return NewFileStore(cfg.FilePath), nil

	case "redis":
		opts, err := parseRedisOptions(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Printf("store: using redis at %s", opts.Addr)
		return NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", drv)
	}
}
