package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/protocol"
)

// session serves one connection. Frames are read and answered strictly in
// order on the session goroutine; nothing here is shared with other sessions.
type session struct {
	id      SessionID
	conn    *websocket.Conn
	handler protocol.Handler
	cfg     config.ServerConfig
	logger  *slog.Logger

	// Per-session counters, reported on disconnect
	shapes int
	echoes int
	errors int
}

func newSession(id SessionID, conn *websocket.Conn, h protocol.Handler, cfg config.ServerConfig, logger *slog.Logger) *session {
	return &session{
		id:      id,
		conn:    conn,
		handler: h,
		cfg:     cfg,
		logger:  logger.With("session", id, "remote", conn.RemoteAddr().String()),
	}
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	if s.cfg.MaxFrameBytes > 0 {
		s.conn.SetReadLimit(s.cfg.MaxFrameBytes)
	}

	s.logger.Info("client connected")

	// Unblock ReadMessage when the server shuts down.
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logClose(err)
			return
		}

		resp := s.handler.Handle(data)
		s.count(resp.Action)

		if err := s.write(resp); err != nil {
			s.logger.Warn("write failed", "error", err)
			return
		}
	}
}

func (s *session) write(resp protocol.Response) error {
	data, err := protocol.Encode(resp)
	if err != nil {
		return err
	}
	if s.cfg.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) count(action string) {
	switch action {
	case protocol.ActionShape:
		s.shapes++
	case protocol.ActionEcho:
		s.echoes++
	case protocol.ActionError:
		s.errors++
	}
}

func (s *session) logClose(err error) {
	attrs := []any{"shapes", s.shapes, "echoes", s.echoes, "errors", s.errors}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		s.logger.Info("client disconnected", attrs...)
		return
	}
	s.logger.Info("client disconnected", append(attrs, "reason", err.Error())...)
}
