// Package server serves shape point sets over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/protocol"
)

// SessionID identifies one accepted connection in logs.
type SessionID uint32

// Server accepts viewer connections and answers shape requests.
type Server struct {
	cfg      config.ServerConfig
	handler  protocol.Handler
	upgrader websocket.Upgrader
	logger   *slog.Logger

	nextID atomic.Uint32
}

// New creates a server. A nil logger uses slog.Default().
func New(cfg config.ServerConfig, shapeCfg config.ShapeConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	return &Server{
		cfg:     cfg,
		handler: protocol.Handler{Count: shapeCfg.PointCount, DefaultShape: shapeCfg.Default},
		upgrader: websocket.Upgrader{
			// The demo page is opened from disk, so there is no origin to check against.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the HTTP routes: a health message at / and the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc(s.cfg.Path, s.handleWS)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("ws server running", "addr", ln.Addr().String(), "path", s.cfg.Path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "MSA3D WebSocket server is running. Connect to " + s.cfg.Path,
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(SessionID(s.nextID.Add(1)), conn, s.handler, s.cfg, s.logger)
	sess.run(r.Context())
}
