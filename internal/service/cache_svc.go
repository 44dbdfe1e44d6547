package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lukajvnic/Avocado/internal/model"
	"github.com/lukajvnic/Avocado/pkg/hash"
)

// ResultCache provides a Redis cache-aside layer for completed check results,
// keyed by the canonical video URL. A repeat check of the same video within
// the TTL is served without re-scraping or re-analyzing.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewResultCache creates a ResultCache. If redisURL is empty or the connection
// fails, it returns a ResultCache with a nil client (cache operations become
// no-ops and every check runs the full pipeline).
func NewResultCache(redisURL string, ttl time.Duration, log zerolog.Logger) *ResultCache {
	log = log.With().Str("component", "result_cache").Logger()

	if redisURL == "" {
		log.Info().Msg("no Redis URL configured, result caching disabled")
		return &ResultCache{ttl: ttl, log: log}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid Redis URL, result caching disabled")
		return &ResultCache{ttl: ttl, log: log}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, result caching disabled")
		return &ResultCache{ttl: ttl, log: log}
	}

	log.Info().Msg("Redis connected, result caching enabled")
	return &ResultCache{rdb: rdb, ttl: ttl, log: log}
}

// NewResultCacheWithClient creates a ResultCache backed by an existing Redis
// client, skipping the connection probe.
func NewResultCacheWithClient(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *ResultCache {
	return &ResultCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "result_cache").Logger(),
	}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *ResultCache) Client() *redis.Client {
	return c.rdb
}

// GetResult retrieves a cached check result for a canonical video URL.
// Returns nil if not cached or caching is disabled.
func (c *ResultCache) GetResult(ctx context.Context, videoURL string) (*model.FactCheckResult, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, resultKey(videoURL)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.FactCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry should not fail the check; treat it as a miss.
		c.log.Warn().Err(err).Msg("dropping corrupt cached result")
		return nil, nil
	}
	return &result, nil
}

// SetResult stores a completed check result.
func (c *ResultCache) SetResult(ctx context.Context, videoURL string, result *model.FactCheckResult) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resultKey(videoURL), b, c.ttl).Err()
}

// Close shuts down the Redis connection.
func (c *ResultCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func resultKey(videoURL string) string {
	return "check:" + hash.SHA256Hex(videoURL)
}
