package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/game"
)

// Config holds the service settings
type Config struct {
	Address         string
	StartingBalance int
	ChipValues      []int
	IdleTimeout     time.Duration
	ReapInterval    time.Duration
}

// Server serves blackjack sessions over WebSocket
type Server struct {
	cfg         Config
	upgrader    websocket.Upgrader
	sessions    *SessionManager
	router      chi.Router
	clock       quartz.Clock
	logger      *log.Logger
	mu          sync.RWMutex
	connections map[*Connection]struct{}
}

// NewServer creates a new WebSocket server. engineOpts are applied to every
// session's engine after the server's own options.
func NewServer(cfg Config, logger *log.Logger, clock quartz.Clock, engineOpts ...game.Option) *Server {
	if cfg.StartingBalance <= 0 {
		cfg.StartingBalance = game.DefaultStartingBalance
	}

	opts := append([]game.Option{game.WithStartingBalance(cfg.StartingBalance)}, engineOpts...)

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions:    NewSessionManager(logger, clock, cfg.IdleTimeout, opts...),
		clock:       clock,
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/api/rules", s.handleRules)
	s.router = r

	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the session manager
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.cfg.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	if s.cfg.ReapInterval > 0 {
		g.Go(func() error {
			return s.sessions.Run(ctx, s.cfg.ReapInterval)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		s.closeConnections()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) closeConnections() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket upgrades the request and attaches it to a session.
// ?session=<id> resumes an existing session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	session, resumed := s.sessions.Attach(r.URL.Query().Get("session"))
	client := NewConnection(conn, session, s.sessions, s.clock, s.logger)

	s.mu.Lock()
	s.connections[client] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", session.ID, "resumed", resumed, "total", total)

	client.Start(resumed)

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "session", session.ID, "total", total)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := RulesData{
		StartingBalance:  s.cfg.StartingBalance,
		ChipValues:       s.cfg.ChipValues,
		DealerStandsOn:   game.DealerStandValue,
		BlackjackPayout:  "3:2",
		IdleTimeoutSecs:  int(s.cfg.IdleTimeout / time.Second),
		DecksPerRound:    1,
		DealerHitsSoft17: false,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rules); err != nil {
		s.logger.Error("Failed to write rules", "error", err)
	}
}
