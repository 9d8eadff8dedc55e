package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
)

// WindowStore counts requests per key within a fixed window
type WindowStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore implements WindowStore with a transactional INCR and EXPIRE
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis client from the redis config section
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return &RedisStore{client: redis.NewClient(opts)}
}

// Incr bumps the counter for key and refreshes its expiry in one MULTI/EXEC,
// so a key never outlives its window without a TTL
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

// Ping tests the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// RedisLimiter shares a fixed one-minute window per client across instances
type RedisLimiter struct {
	store     WindowStore
	limit     int64
	window    time.Duration
	keyPrefix string
	logger    types.Logger
	now       func() time.Time
}

// NewRedisLimiter creates a limiter backed by the configured Redis server
func NewRedisLimiter(cfg *config.Config) *RedisLimiter {
	return NewWindowLimiter(cfg, NewRedisStore(cfg))
}

// NewWindowLimiter creates a fixed-window limiter on top of any WindowStore
func NewWindowLimiter(cfg *config.Config, store WindowStore) *RedisLimiter {
	return &RedisLimiter{
		store:     store,
		limit:     int64(cfg.RateLimit.RequestsPerMinute),
		window:    time.Minute,
		keyPrefix: cfg.Redis.KeyPrefix,
		logger:    logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		now:       time.Now,
	}
}

// Allow counts the request in the client's current window. Store errors are
// returned with allowed set to true so an unreachable Redis never blocks
// traffic.
func (rl *RedisLimiter) Allow(ctx context.Context, client string) (bool, error) {
	key := rl.windowKey(client)

	count, err := rl.store.Incr(ctx, key, rl.window)
	if err != nil {
		rl.logger.Warn("Rate limit store unavailable, allowing request", map[string]interface{}{
			"client": client,
			"error":  err.Error(),
		})
		return true, err
	}

	if count > rl.limit {
		rl.logger.Debug("Request rejected by rate limiter", map[string]interface{}{
			"client": client,
			"count":  count,
		})
		return false, nil
	}
	return true, nil
}

// Name identifies the backend in health checks
func (rl *RedisLimiter) Name() string { return "redis" }

// Ping reports whether the backing store is reachable
func (rl *RedisLimiter) Ping(ctx context.Context) error {
	return rl.store.Ping(ctx)
}

// Stop closes the store connection
func (rl *RedisLimiter) Stop() {
	if err := rl.store.Close(); err != nil {
		rl.logger.Warn("Failed to close rate limit store", map[string]interface{}{"error": err.Error()})
	}
}

func (rl *RedisLimiter) windowKey(client string) string {
	start := rl.now().Truncate(rl.window).Unix()
	return fmt.Sprintf("%s%s:%d", rl.keyPrefix, client, start)
}
