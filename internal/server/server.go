// Package server exposes the front desk over HTTP: a websocket chat endpoint
// with one dialogue session per connection, plus the operational endpoints.
//
//	GET /ws        websocket chat
//	GET /sessions  live sessions (JSON)
//	GET /healthz   liveness
//	GET /readyz    readiness
//	GET /metrics   Prometheus exposition
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/MrWong99/paraiso/internal/console"
	"github.com/MrWong99/paraiso/internal/health"
	"github.com/MrWong99/paraiso/internal/observe"
	"github.com/MrWong99/paraiso/internal/session"
)

const (
	defaultReadLimit = 4 << 10
	shutdownTimeout  = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Registry owns the chat sessions. Required.
	Registry *session.Registry

	// Health serves /healthz and /readyz. Nil registers a handler without
	// checkers.
	Health *health.Handler

	// Metrics records HTTP request durations. Default: [observe.DefaultMetrics].
	Metrics *observe.Metrics

	// MetricsHandler serves /metrics. Default: [observe.MetricsHandler].
	MetricsHandler http.Handler

	// Welcome is the first line sent on a new connection.
	Welcome string

	// ReadLimit caps a client frame in bytes. Default: 4 KiB.
	ReadLimit int64

	// OriginPatterns lists extra hosts allowed to open cross-origin
	// websockets.
	OriginPatterns []string
}

// Server is the HTTP front end.
type Server struct {
	cfg     Config
	handler http.Handler
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	if cfg.Health == nil {
		cfg.Health = health.New()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.DefaultMetrics()
	}
	if cfg.MetricsHandler == nil {
		cfg.MetricsHandler = observe.MetricsHandler()
	}
	if cfg.Welcome == "" {
		cfg.Welcome = console.DefaultWelcome
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}

	s := &Server{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleChat)
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.Handle("GET /metrics", cfg.MetricsHandler)
	cfg.Health.Register(mux)

	s.handler = observe.Middleware(cfg.Metrics)(mux)
	return s
}

// Handler returns the root handler with tracing and request metrics applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %q: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then drains: /readyz starts
// failing, open chats are closed and in-flight requests get a grace period.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		// Request contexts end with ctx, which also ends hijacked chats.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	slog.Info("http server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.cfg.Health.SetDraining()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

type sessionInfo struct {
	ID         string    `json:"id"`
	Key        string    `json:"key,omitempty"`
	State      string    `json:"state"`
	Created    time.Time `json:"created"`
	LastActive time.Time `json:"last_active"`
}

func (s *Server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	infos := s.cfg.Registry.List()
	out := make([]sessionInfo, 0, len(infos))
	for _, in := range infos {
		out = append(out, sessionInfo{
			ID:         in.ID,
			Key:        in.Key,
			State:      string(in.State),
			Created:    in.Created,
			LastActive: in.LastActive,
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(out)
}
