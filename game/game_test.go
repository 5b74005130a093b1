package game

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/msa3d/channel"
	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/protocol"
	"github.com/pthm-cable/msa3d/shapes"
	"github.com/pthm-cable/msa3d/voice"
)

// fakeChannel records requests and lets tests push shapes.
type fakeChannel struct {
	mu        sync.Mutex
	sent      []protocol.Request
	connected bool
	inbox     chan protocol.Response
}

func newFakeChannel(connected bool) *fakeChannel {
	return &fakeChannel{connected: connected, inbox: make(chan protocol.Response, 8)}
}

func (c *fakeChannel) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (c *fakeChannel) Send(req protocol.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return channel.ErrNotConnected
	}
	c.sent = append(c.sent, req)
	return nil
}

func (c *fakeChannel) Inbox() <-chan protocol.Response { return c.inbox }

func (c *fakeChannel) Status() channel.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return channel.StatusConnected
	}
	return channel.StatusDisconnected
}

func (c *fakeChannel) Sent() []protocol.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Request(nil), c.sent...)
}

func newTestGame(t *testing.T, ch ShapeChannel, rec voice.Recognizer, outputDir string) *Game {
	t.Helper()
	return NewGameWithOptions(Options{
		Config:         config.Default(),
		Seed:           42,
		Headless:       true,
		StatsWindowSec: 0.1,
		OutputDir:      outputDir,
		Channel:        ch,
		Recognizer:     rec,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestShapeAppliedOnNextTick(t *testing.T) {
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, "")

	ch.inbox <- protocol.ShapeResponse("square", shapes.Generate("square", 200))
	g.UpdateHeadless()

	if g.Shape() != "square" {
		t.Fatalf("Shape() = %q, want square", g.Shape())
	}
	if g.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", g.Tick())
	}

	particles := g.Field().Snapshot(nil)
	for i, p := range particles {
		if !p.HasTarget {
			t.Fatalf("particle %d has no target after shape", i)
		}
	}
}

func TestLatestShapeWins(t *testing.T) {
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, "")

	ch.inbox <- protocol.ShapeResponse("square", shapes.Generate("square", 200))
	ch.inbox <- protocol.ShapeResponse("circle", shapes.Generate("circle", 200))
	g.UpdateHeadless()

	if g.Shape() != "circle" {
		t.Errorf("Shape() = %q, want circle", g.Shape())
	}
}

func TestRequestShape(t *testing.T) {
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, "")

	g.RequestShape(1)
	g.RequestShape(99) // out of range, ignored

	want := []protocol.Request{protocol.NewShape("square")}
	if diff := cmp.Diff(want, ch.Sent()); diff != "" {
		t.Errorf("sent requests mismatch (-want +got):\n%s", diff)
	}
	if g.SelectedShape() != "square" {
		t.Errorf("SelectedShape() = %q, want square", g.SelectedShape())
	}

	g.Wake()
	sent := ch.Sent()
	if got := sent[len(sent)-1]; got != protocol.NewWake("square", "msa3d") {
		t.Errorf("wake request = %+v", got)
	}
}

func TestSendWhileDisconnected(t *testing.T) {
	ch := newFakeChannel(false)
	g := newTestGame(t, ch, nil, "")

	g.Wake()
	g.RequestShape(0)
	if n := len(ch.Sent()); n != 0 {
		t.Fatalf("sent %d requests while disconnected", n)
	}

	chLine, chOK, voiceLine, _ := g.StatusLines()
	if chLine != channel.StatusDisconnected.String() || chOK {
		t.Errorf("channel line = %q ok=%v", chLine, chOK)
	}
	if voiceLine != "Voice: off" {
		t.Errorf("voice line = %q, want Voice: off", voiceLine)
	}
}

func TestWakePhraseSendsWake(t *testing.T) {
	ch := newFakeChannel(true)
	rec := voice.RecognizerFunc(func(ctx context.Context, out chan<- string) error {
		select {
		case out <- "hey MSA three D":
		case <-ctx.Done():
			return ctx.Err()
		}
		<-ctx.Done()
		return ctx.Err()
	})
	g := newTestGame(t, ch, rec, "")
	g.Start(context.Background())
	defer g.Unload()

	deadline := time.Now().Add(2 * time.Second)
	for len(ch.Sent()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for wake request")
		}
		g.UpdateHeadless()
		time.Sleep(5 * time.Millisecond)
	}

	want := protocol.NewWake("circle", "msa3d")
	if got := ch.Sent()[0]; got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
	if _, _, line, ok := g.StatusLines(); line != "Voice: MSA3D detected" || !ok {
		t.Errorf("voice line = %q ok=%v", line, ok)
	}
}

func TestOtherTranscriptShown(t *testing.T) {
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, "")

	g.handleTranscript(voice.Event{Transcript: "good morning"})
	if g.voiceLine != "Voice: heard -> good morning" {
		t.Errorf("voice line = %q", g.voiceLine)
	}
	if n := len(ch.Sent()); n != 0 {
		t.Errorf("sent %d requests for a non-wake transcript", n)
	}
}

func TestResizeDropsTargets(t *testing.T) {
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, "")

	ch.inbox <- protocol.ShapeResponse("circle", shapes.Generate("circle", 200))
	g.UpdateHeadless()
	gen := g.Field().Generation()

	g.resize(640, 480)

	if g.Field().Generation() == gen {
		t.Error("generation unchanged after resize")
	}
	for i, p := range g.Field().Snapshot(nil) {
		if p.HasTarget {
			t.Fatalf("particle %d kept its target after resize", i)
		}
	}

	w, h := g.Field().Size()
	if w != 640 || h != 480 {
		t.Errorf("field size = %vx%v, want 640x480", w, h)
	}
}

func TestHeadlessRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	ch := newFakeChannel(true)
	g := newTestGame(t, ch, nil, dir)

	ch.inbox <- protocol.ShapeResponse("circle", shapes.Generate("circle", 200))
	for range 30 {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "fieldstats.csv", "perf.csv", "snapshot_30_circle.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
