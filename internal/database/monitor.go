package database

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ReadyState mirrors the connection states the dashboard already understands.
type ReadyState int

const (
	Disconnected ReadyState = 0
	Connected    ReadyState = 1
)

func (s ReadyState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

type Status struct {
	State     ReadyState
	LastError string
	CheckedAt time.Time
}

// Monitor answers "is the database usable right now" within a bounded time.
// Ping results are cached for a short interval so a burst of requests does
// not ping once per request.
type Monitor struct {
	db       *gorm.DB
	timeout  time.Duration
	cacheFor time.Duration
	onReady  func(*gorm.DB) error

	mu        sync.Mutex
	state     ReadyState
	lastErr   error
	checkedAt time.Time
	migrated  bool
}

// NewMonitor wraps db, which may be nil when Connect failed; connectErr is
// then reported as the last error. onReady runs once, after the first
// successful ping.
func NewMonitor(db *gorm.DB, connectErr error, timeout, cacheFor time.Duration, onReady func(*gorm.DB) error) *Monitor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Monitor{
		db:       db,
		timeout:  timeout,
		cacheFor: cacheFor,
		onReady:  onReady,
		lastErr:  connectErr,
	}
}

func (m *Monitor) Ready(ctx context.Context) bool {
	return m.Check(ctx).State == Connected
}

func (m *Monitor) Check(ctx context.Context) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return m.statusLocked()
	}
	if !m.checkedAt.IsZero() && time.Since(m.checkedAt) < m.cacheFor {
		return m.statusLocked()
	}

	err := m.ping(ctx)
	m.checkedAt = time.Now().UTC()
	if err != nil {
		if m.state == Connected {
			log.Printf("⚠️  Database connection lost: %v", err)
		}
		m.state = Disconnected
		m.lastErr = err
		return m.statusLocked()
	}

	if !m.migrated && m.onReady != nil {
		if err := m.onReady(m.db); err != nil {
			m.state = Disconnected
			m.lastErr = err
			return m.statusLocked()
		}
	}
	m.migrated = true
	if m.state != Connected {
		log.Println("✅ Database connection established")
	}
	m.state = Connected
	return m.statusLocked()
}

func (m *Monitor) ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.New("database ping timed out")
		}
		return err
	}
	return nil
}

func (m *Monitor) statusLocked() Status {
	s := Status{State: m.state, CheckedAt: m.checkedAt}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}
