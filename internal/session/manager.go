package session

import (
	"context"
	"errors"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-popup/internal/mines"
)

var ErrNotFound = errors.New("session not found")

type Manager struct {
	logger  *slog.Logger
	ttl     time.Duration
	newRand func() mines.Random
	opts    []mines.Option

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

type ManagerOption func(*Manager)

// WithRandSource overrides how each session's random source is built.
func WithRandSource(f func() mines.Random) ManagerOption {
	return func(m *Manager) { m.newRand = f }
}

// WithEngineOptions are applied to every engine the manager creates.
func WithEngineOptions(opts ...mines.Option) ManagerOption {
	return func(m *Manager) { m.opts = append(m.opts, opts...) }
}

func createRand() mines.Random {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func NewManager(logger *slog.Logger, ttl time.Duration, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   logger,
		ttl:      ttl,
		newRand:  createRand,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session and its first game.
func (m *Manager) Create(ctx context.Context, settings mines.Settings) (*Session, mines.Settings, error) {
	if err := settings.Validate(); err != nil {
		return nil, mines.Settings{}, err
	}
	s := newSession(m.ctx, m.logger, m.newRand(), m.opts...)

	var (
		applied mines.Settings
		err     error
	)
	if doErr := s.Do(ctx, func(e *mines.Engine) {
		applied, err = e.NewGame(settings)
	}); doErr != nil {
		s.close()
		return nil, mines.Settings{}, doErr
	}
	if err != nil {
		s.close()
		return nil, mines.Settings{}, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug("session created",
		slog.String("session", s.ID.String()),
		slog.String("settings", applied.Seed()),
		slog.Int("sessions", count),
	)
	return s, applied, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Lookup parses id before calling Get.
func (m *Manager) Lookup(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.Get(uid)
}

func (m *Manager) Close(id uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict closes sessions idle since before now minus the TTL and returns how
// many it closed.
func (m *Manager) Evict(now time.Time) int {
	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.close()
	}
	if len(idle) > 0 {
		m.logger.Info("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// Run evicts idle sessions until ctx is done, then closes all of them.
func (m *Manager) Run(ctx context.Context) error {
	interval := max(m.ttl/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return nil
		case now := <-ticker.C:
			m.Evict(now)
		}
	}
}

func (m *Manager) Shutdown() {
	m.cancel()
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}
