package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/protocol"
	"github.com/pthm-cable/msa3d/shapes"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	srv := New(cfg.Server, cfg.Shape, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundtrip(t *testing.T, conn *websocket.Conn, frame string) protocol.Response {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	resp, err := protocol.DecodeResponse(data)
	if err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return resp
}

func TestShapeRequestEndToEnd(t *testing.T) {
	conn := dial(t, newTestServer(t))

	resp := roundtrip(t, conn, `{"cmd":"shape","shape":"circle"}`)
	if resp.Action != protocol.ActionShape || resp.Shape != shapes.Circle {
		t.Fatalf("got action=%q shape=%q, want shape/circle", resp.Action, resp.Shape)
	}
	if len(resp.Points) != 200 {
		t.Fatalf("got %d points, want 200", len(resp.Points))
	}
	if diff := cmp.Diff(shapes.Generate(shapes.Circle, 200), resp.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidPayloadKeepsConnectionOpen(t *testing.T) {
	conn := dial(t, newTestServer(t))

	resp := roundtrip(t, conn, "this is not json")
	want := protocol.Response{Action: protocol.ActionError, Msg: protocol.MsgInvalidPayload}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("error frame mismatch (-want +got):\n%s", diff)
	}

	// Same connection still answers requests in order.
	resp = roundtrip(t, conn, `{"cmd":"wake","shape":"square","trigger":"msa3d"}`)
	if resp.Action != protocol.ActionShape || resp.Shape != shapes.Square || len(resp.Points) != 200 {
		t.Errorf("after error got action=%q shape=%q points=%d", resp.Action, resp.Shape, len(resp.Points))
	}

	resp = roundtrip(t, conn, `{"cmd":"ping"}`)
	if resp.Action != protocol.ActionEcho || string(resp.Received) != `{"cmd":"ping"}` {
		t.Errorf("echo got action=%q received=%s", resp.Action, resp.Received)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)

	ra := roundtrip(t, a, `{"cmd":"shape","shape":"rectangle"}`)
	rb := roundtrip(t, b, `{"cmd":"shape","shape":"square"}`)
	if ra.Shape != shapes.Rectangle || rb.Shape != shapes.Square {
		t.Errorf("got %q and %q, want rectangle and square", ra.Shape, rb.Shape)
	}
}

func TestRootHealth(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["message"], "/ws") {
		t.Errorf("message = %q, want mention of /ws", body["message"])
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	srv := New(cfg.Server, cfg.Shape, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
