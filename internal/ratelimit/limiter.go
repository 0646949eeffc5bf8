// Package ratelimit caps how often a single user can hit the AI endpoints.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/justsurfingit/job-tracker/internal/config"
	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// New returns a Redis-backed limiter when REDIS_URL is set and reachable,
// otherwise an in-process one.
func New(cfg config.LimitConfig) Limiter {
	if cfg.RedisURL == "" {
		return NewMemoryLimiter(cfg.Requests, cfg.Window)
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Invalid REDIS_URL (%v), using in-memory rate limiter", err)
		return NewMemoryLimiter(cfg.Requests, cfg.Window)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable (%v), using in-memory rate limiter", err)
		_ = client.Close()
		return NewMemoryLimiter(cfg.Requests, cfg.Window)
	}
	log.Println("✅ Rate limiter backed by Redis")
	return NewRedisLimiter(client, cfg.Requests, cfg.Window)
}

// MemoryLimiter is a fixed-window counter per key.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) bool {
	if key == "" || m.limit <= 0 || m.window <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	b, ok := m.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		m.buckets[key] = &bucket{count: 1, windowEnd: now.Add(m.window)}
		return true
	}
	if b.count >= m.limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets at most once per window.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	for k, b := range m.buckets {
		if !now.Before(b.windowEnd) {
			delete(m.buckets, k)
		}
	}
	m.lastSweep = now
}
