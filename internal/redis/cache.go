package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clubstats/internal/config"
	"github.com/clubstats/internal/domain"
)

// AggregateCache provides Redis-backed caching of player aggregates
type AggregateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewAggregateCache creates a new Redis aggregate cache
func NewAggregateCache(cfg *config.RedisConfig, logger *slog.Logger) (*AggregateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &AggregateCache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *AggregateCache) Close() error {
	return c.client.Close()
}

// aggregatesKey returns the Redis key for a player's cached aggregates.
// The empty season means the all-seasons aggregate.
func (c *AggregateCache) aggregatesKey(playerID int64, season string) string {
	if season == "" {
		season = "all"
	}
	return fmt.Sprintf("player:%d:aggregates:%s", playerID, season)
}

// GetAggregates returns the cached aggregates for a player, or (nil, nil)
// on a cache miss
func (c *AggregateCache) GetAggregates(ctx context.Context, playerID int64, season string) (*domain.PlayerAggregates, error) {
	data, err := c.client.Get(ctx, c.aggregatesKey(playerID, season)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("getting cached aggregates: %w", err)
	}

	var agg domain.PlayerAggregates
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("unmarshaling cached aggregates: %w", err)
	}
	return &agg, nil
}

// SetAggregates stores computed aggregates with the configured TTL
func (c *AggregateCache) SetAggregates(ctx context.Context, agg *domain.PlayerAggregates) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshaling aggregates: %w", err)
	}
	key := c.aggregatesKey(agg.PlayerID, agg.Season)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("setting cached aggregates: %w", err)
	}
	return nil
}

// InvalidateAggregates drops every cached aggregate for a player. Writes
// to any of the player's stat lines call this before returning, so a
// stale per-season entry cannot outlive the row it summarized beyond one
// TTL window.
func (c *AggregateCache) InvalidateAggregates(ctx context.Context, playerID int64) error {
	pattern := fmt.Sprintf("player:%d:aggregates:*", playerID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning cached aggregates: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting cached aggregates: %w", err)
	}
	return nil
}
