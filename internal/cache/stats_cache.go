package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStatsCache stores per-user usage stats as JSON with a TTL.
// It implements ports.StatsCache.
type RedisStatsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func NewRedisStatsCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStatsCache {
	return &RedisStatsCache{rdb: rdb, ttl: ttl, logger: logger}
}

func statsKey(userID int64) string {
	return fmt.Sprintf("contentgenius:stats:%d", userID)
}

func (c *RedisStatsCache) GetStats(ctx context.Context, userID int64) (*domain.UsageStats, error) {
	raw, err := c.rdb.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get stats: %w", err)
	}

	var stats domain.UsageStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn("dropping unreadable stats cache entry", "user_id", userID, "error", err)
		_ = c.rdb.Del(ctx, statsKey(userID)).Err()
		return nil, nil
	}
	return &stats, nil
}

func (c *RedisStatsCache) SetStats(ctx context.Context, userID int64, stats *domain.UsageStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("cache: marshal stats: %w", err)
	}
	if err := c.rdb.Set(ctx, statsKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set stats: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) InvalidateStats(ctx context.Context, userID int64) error {
	if err := c.rdb.Del(ctx, statsKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache: invalidate stats: %w", err)
	}
	return nil
}

// NoopStatsCache is used when Redis is not configured.
type NoopStatsCache struct{}

func (NoopStatsCache) GetStats(context.Context, int64) (*domain.UsageStats, error) { return nil, nil }
func (NoopStatsCache) SetStats(context.Context, int64, *domain.UsageStats) error   { return nil }
func (NoopStatsCache) InvalidateStats(context.Context, int64) error                { return nil }
