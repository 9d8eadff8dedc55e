package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
)

// Limiter decides whether one more request from a client may proceed
type Limiter interface {
	Allow(ctx context.Context, client string) (bool, error)
	Name() string
	Stop()
}

// New returns the limiter selected by rate_limit.backend
func New(cfg *config.Config) (Limiter, error) {
	switch strings.ToLower(cfg.RateLimit.Backend) {
	case "", "memory":
		return NewMemoryLimiter(cfg), nil
	case "redis":
		return NewRedisLimiter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.RateLimit.Backend)
	}
}

// clientLimiter is the token bucket of one client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
}

// MemoryLimiter keeps one token bucket per client inside the process
type MemoryLimiter struct {
	limit   rate.Limit
	burst   int
	maxIdle time.Duration

	clients map[string]*clientLimiter
	mu      sync.Mutex
	logger  types.Logger
	now     func() time.Time

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// NewMemoryLimiter creates an in-process limiter and starts its cleanup routine
func NewMemoryLimiter(cfg *config.Config) *MemoryLimiter {
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}

	interval := cfg.RateLimit.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ml := &MemoryLimiter{
		// requests per minute converted to requests per second
		limit:         rate.Limit(float64(cfg.RateLimit.RequestsPerMinute) / 60.0),
		burst:         burst,
		maxIdle:       cfg.RateLimit.MaxIdle,
		clients:       make(map[string]*clientLimiter),
		logger:        logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		now:           time.Now,
		cleanupTicker: time.NewTicker(interval),
		stopCleanup:   make(chan struct{}),
	}
	if ml.maxIdle <= 0 {
		ml.maxIdle = 15 * time.Minute
	}

	go ml.cleanupRoutine()

	return ml
}

// Allow takes one token from the client's bucket
func (ml *MemoryLimiter) Allow(_ context.Context, client string) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	cl, exists := ml.clients[client]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(ml.limit, ml.burst)}
		ml.clients[client] = cl
	}
	cl.lastSeen = now

	if !cl.limiter.AllowN(now, 1) {
		ml.logger.Debug("Request rejected by rate limiter", map[string]interface{}{"client": client})
		return false, nil
	}
	cl.requests++
	return true, nil
}

// Name identifies the backend in health checks
func (ml *MemoryLimiter) Name() string { return "memory" }

// Clients returns the number of tracked clients
func (ml *MemoryLimiter) Clients() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.clients)
}

// Stop ends the cleanup routine
func (ml *MemoryLimiter) Stop() {
	ml.stopOnce.Do(func() { close(ml.stopCleanup) })
}

func (ml *MemoryLimiter) cleanupRoutine() {
	for {
		select {
		case <-ml.cleanupTicker.C:
			ml.cleanup()
		case <-ml.stopCleanup:
			ml.cleanupTicker.Stop()
			return
		}
	}
}

// cleanup forgets clients idle for longer than max_idle
func (ml *MemoryLimiter) cleanup() {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	cutoff := ml.now().Add(-ml.maxIdle)
	removed := 0
	for client, cl := range ml.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(ml.clients, client)
			removed++
		}
	}

	if removed > 0 {
		ml.logger.Info("Cleaned up idle rate limiters", map[string]interface{}{
			"removed_count": removed,
			"remaining":     len(ml.clients),
		})
	}
}
