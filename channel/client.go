// Package channel is the viewer's persistent connection to the shape server.
//
// The client redials after every disconnect or dial failure with a fixed
// delay, indefinitely, until its context is cancelled.
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/protocol"
)

// ErrNotConnected is returned by Send when no connection is open.
var ErrNotConnected = errors.New("channel: not connected")

// Status is the connection state shown in the status indicator.
type Status uint32

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "WS: connecting"
	case StatusConnected:
		return "WS: connected"
	case StatusDisconnected:
		return "WS: disconnected"
	case StatusError:
		return "WS: error"
	}
	return "WS: unknown"
}

// Client holds one connection at a time to the shape server.
type Client struct {
	cfg    config.ChannelConfig
	dialer *websocket.Dialer
	logger *slog.Logger

	status atomic.Uint32
	inbox  chan protocol.Response

	mu   sync.Mutex // guards conn and serializes writes
	conn *websocket.Conn

	dials atomic.Int64
}

// New creates a client. A nil logger uses slog.Default().
func New(cfg config.ChannelConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.InboxSize
	if size < 1 {
		size = 1
	}
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.DialTimeout,
		},
		logger: logger.With("url", cfg.URL),
		inbox:  make(chan protocol.Response, size),
	}
}

// Run connects and reconnects until ctx is cancelled. It always returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setStatus(StatusConnecting)
		c.dials.Add(1)

		conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.setStatus(StatusError)
			c.logger.Warn("ws dial failed", "error", err)
		} else {
			c.serve(ctx, conn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.setStatus(StatusDisconnected)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// serve reads frames from one connection until it fails or ctx ends.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setStatus(StatusConnected)
	c.logger.Info("ws connected")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Info("ws disconnected", "error", err)
			}
			return
		}
		c.dispatch(data)
	}
}

// dispatch forwards shape responses that carry points to the inbox.
// When the inbox is full the oldest pending shape is dropped: only the most
// recent shape matters to the field.
func (c *Client) dispatch(data []byte) {
	resp, err := protocol.DecodeResponse(data)
	if err != nil {
		c.logger.Warn("invalid ws msg", "error", err)
		return
	}
	if resp.Action != protocol.ActionShape || len(resp.Points) == 0 {
		c.logger.Debug("ws msg ignored", "action", resp.Action, "msg", resp.Msg)
		return
	}

	for {
		select {
		case c.inbox <- resp:
			return
		default:
		}
		select {
		case <-c.inbox:
		default:
		}
	}
}

// Send writes a request on the open connection.
func (c *Client) Send(req protocol.Request) error {
	data, err := protocol.Encode(req)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("sending %s: %w", req.Cmd, err)
	}
	return nil
}

// Inbox delivers shape responses in arrival order.
func (c *Client) Inbox() <-chan protocol.Response {
	return c.inbox
}

// Status returns the current connection state.
func (c *Client) Status() Status {
	return Status(c.status.Load())
}

// Dials returns how many connection attempts Run has made.
func (c *Client) Dials() int64 {
	return c.dials.Load()
}

func (c *Client) setStatus(s Status) {
	c.status.Store(uint32(s))
}
