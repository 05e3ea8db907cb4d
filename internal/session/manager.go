package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/internal/checkout"
	"github.com/cafesol/cafeapp/pkg/config"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/google/uuid"
)

// Session is one browsing session's in-memory state. Cart contents and
// checkout progress live here and nowhere else; the cafe API only ever sees
// completed orders.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seenBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Factory builds the cart and checkout pair for a new session.
type Factory func(sessionID string) (*cart.Store, *checkout.Orchestrator, error)

type toucher interface {
	TouchSession(ctx context.Context, sessionID string, ttl time.Duration) error
}

// Manager owns the session registry. Sessions are created lazily on first
// request, kept alive by activity, and evicted by the janitor after the TTL.
type Manager struct {
	factory Factory
	cfg     config.SessionConfig
	touch   toucher
	logg    *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds the registry. The toucher is optional; when present each
// session activity is mirrored to redis so operators can see live sessions.
func NewManager(factory Factory, cfg config.SessionConfig, touch toucher, logg *logger.Logger) (*Manager, error) {
	if factory == nil {
		return nil, fmt.Errorf("session factory required")
	}
	return &Manager{
		factory:  factory,
		cfg:      cfg,
		touch:    touch,
		logg:     logg,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}, nil
}

// GetOrCreate returns the session for the given ID, minting a fresh one when
// the ID is empty or unknown. The returned session is always usable.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	now := m.now()

	if sessionID != "" {
		m.mu.Lock()
		if existing, ok := m.sessions[sessionID]; ok {
			m.mu.Unlock()
			existing.touch(now)
			m.touchRemote(ctx, existing.ID)
			return existing, nil
		}
		m.mu.Unlock()
	}

	id := uuid.NewString()
	crt, orch, err := m.factory(id)
	if err != nil {
		return nil, fmt.Errorf("building session %s: %w", id, err)
	}
	created := &Session{
		ID:       id,
		Cart:     crt,
		Checkout: orch,
		lastSeen: now,
	}

	m.mu.Lock()
	m.sessions[id] = created
	count := len(m.sessions)
	m.mu.Unlock()

	if m.logg != nil {
		ctx = m.logg.WithSessionID(ctx, id)
		m.logg.Info(m.logg.WithField(ctx, "active_sessions", count), "session created")
	}
	m.touchRemote(ctx, id)
	return created, nil
}

// Lookup returns the session without creating one.
func (m *Manager) Lookup(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor runs TTL eviction until the context is cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	interval := m.cfg.JanitorInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.evictExpired(ctx)
			}
		}
	}()
}

func (m *Manager) evictExpired(ctx context.Context) {
	cutoff := m.now().Add(-m.cfg.TTL)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.seenBefore(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 && m.logg != nil {
		m.logg.Info(m.logg.WithFields(ctx, map[string]any{
			"evicted":         len(expired),
			"active_sessions": remaining,
		}), "expired sessions evicted")
	}
}

func (m *Manager) touchRemote(ctx context.Context, sessionID string) {
	if m.touch == nil {
		return
	}
	if err := m.touch.TouchSession(ctx, sessionID, m.cfg.TTL); err != nil && m.logg != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "session touch failed")
	}
}
