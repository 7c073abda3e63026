package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/game"
)

// Session is one player's game, kept alive across reconnects
type Session struct {
	ID     string
	Engine *game.Engine

	mu       sync.Mutex
	lastSeen time.Time
	attached int
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) idleSince(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen), s.attached == 0
}

// SessionManager owns every live session
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	clock       quartz.Clock
	idleTimeout time.Duration
	engineOpts  []game.Option
	logger      *log.Logger
}

// NewSessionManager creates a session manager. engineOpts are applied to the
// engine of every new session.
func NewSessionManager(logger *log.Logger, clock quartz.Clock, idleTimeout time.Duration, engineOpts ...game.Option) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		clock:       clock,
		idleTimeout: idleTimeout,
		engineOpts:  engineOpts,
		logger:      logger.WithPrefix("sessions"),
	}
}

// Create starts a new session with a fresh game
func (m *SessionManager) Create() *Session {
	id := uuid.NewString()
	opts := append([]game.Option{
		game.WithLogger(m.logger.With("session", id)),
		game.WithClock(m.clock),
	}, m.engineOpts...)

	s := &Session{
		ID:       id,
		Engine:   game.NewEngine(opts...),
		lastSeen: m.clock.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	total := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Session created", "session", id, "total", total)
	return s
}

// Get returns a live session
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Attach resumes the session with the given id, or creates one when id is
// empty or unknown. The bool reports whether an existing session was resumed.
func (m *SessionManager) Attach(id string) (*Session, bool) {
	s, resumed := m.Get(id)
	if !resumed {
		if id != "" {
			m.logger.Debug("Unknown session, creating a new one", "requested", id)
		}
		s = m.Create()
	}

	s.mu.Lock()
	s.attached++
	s.lastSeen = m.clock.Now()
	s.mu.Unlock()
	return s, resumed
}

// Detach marks a connection as gone from the session
func (m *SessionManager) Detach(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 {
		s.attached--
	}
	s.lastSeen = m.clock.Now()
}

// Touch records activity on a session
func (m *SessionManager) Touch(s *Session) {
	s.touch(m.clock.Now())
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ReapIdle removes detached sessions idle for longer than the idle timeout
// and returns how many were removed. A zero timeout disables reaping.
func (m *SessionManager) ReapIdle() int {
	if m.idleTimeout <= 0 {
		return 0
	}

	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for id, s := range m.sessions {
		idle, detached := s.idleSince(now)
		if detached && idle > m.idleTimeout {
			delete(m.sessions, id)
			reaped++
			m.logger.Info("Session expired", "session", id, "idle", idle.Round(time.Second))
		}
	}
	return reaped
}

// Run reaps idle sessions every interval until ctx is cancelled
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) error {
	w := m.clock.TickerFunc(ctx, interval, func() error {
		if n := m.ReapIdle(); n > 0 {
			m.logger.Debug("Reaped idle sessions", "count", n, "remaining", m.Len())
		}
		return nil
	}, "reaper")

	err := w.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
