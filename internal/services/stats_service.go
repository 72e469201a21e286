package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPopularLimit  = 5
	defaultUpcomingLimit = 5
	defaultRecentLimit   = 10
)

// StatsCache stores rendered dashboard stats for a short time.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStatsCache is a StatsCache backed by Redis.
type RedisStatsCache struct {
	client *redis.Client
	prefix string
}

func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client, prefix: "devevent:stats:"}
}

func (c *RedisStatsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

type StatsService struct {
	statsRepo models.StatsRepo
	cache     StatsCache
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewStatsService builds the dashboard stats service. cache may be nil, in
// which case every call goes to the database.
func NewStatsService(statsRepo models.StatsRepo, cache StatsCache, ttl time.Duration, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		statsRepo: statsRepo,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

func (ss *StatsService) today() string {
	return ss.now().UTC().Format(time.DateOnly)
}

func (ss *StatsService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	return cached(ctx, ss, "overview", func() (*models.OverviewStats, error) {
		return ss.statsRepo.OverviewStats(ctx)
	})
}

func (ss *StatsService) PopularEvents(ctx context.Context, limit int) ([]*models.PopularEvent, error) {
	limit = clampLimit(limit, defaultPopularLimit)
	return cached(ctx, ss, fmt.Sprintf("popular:%d", limit), func() ([]*models.PopularEvent, error) {
		return ss.statsRepo.PopularEvents(ctx, limit)
	})
}

func (ss *StatsService) UpcomingEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	limit = clampLimit(limit, defaultUpcomingLimit)
	today := ss.today()
	return cached(ctx, ss, fmt.Sprintf("upcoming:%s:%d", today, limit), func() ([]*models.Event, error) {
		return ss.statsRepo.UpcomingEvents(ctx, today, limit)
	})
}

// RecentBookings is never cached so new bookings show up immediately.
func (ss *StatsService) RecentBookings(ctx context.Context, limit int) ([]*models.RecentBooking, error) {
	return ss.statsRepo.RecentBookings(ctx, clampLimit(limit, defaultRecentLimit))
}

func (ss *StatsService) Growth(ctx context.Context) (*models.GrowthStats, error) {
	return cached(ctx, ss, "growth", func() (*models.GrowthStats, error) {
		return ss.statsRepo.GrowthStats(ctx, ss.now().UTC())
	})
}

func (ss *StatsService) EventStats(ctx context.Context) (*models.EventStats, error) {
	today := ss.today()
	return cached(ctx, ss, "events:"+today, func() (*models.EventStats, error) {
		return ss.statsRepo.EventStats(ctx, today)
	})
}

// cached serves key from the cache when possible and fills it after a load.
// Cache failures are logged and otherwise ignored.
func cached[T any](ctx context.Context, ss *StatsService, key string, load func() (T, error)) (T, error) {
	if ss.cache != nil && ss.ttl > 0 {
		raw, ok, err := ss.cache.Get(ctx, key)
		if err != nil {
			ss.logger.Warn("stats cache read failed", "key", key, "error", err)
		}
		if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			ss.logger.Warn("stats cache entry unreadable", "key", key)
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if ss.cache != nil && ss.ttl > 0 {
		if raw, err := json.Marshal(v); err == nil {
			if err := ss.cache.Set(ctx, key, raw, ss.ttl); err != nil {
				ss.logger.Warn("stats cache write failed", "key", key, "error", err)
			}
		}
	}
	return v, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 || limit > maxPageSize {
		return fallback
	}
	return limit
}
