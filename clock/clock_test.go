package clock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pthm-cable/msa3d/config"
)

// fakeNow returns a settable time.
type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

func TestFormats(t *testing.T) {
	cfg := config.Default().Clock
	f := &fakeNow{t: time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC)}
	c := New(cfg, f.now)

	if got := c.Time(); got != "09:07:03" {
		t.Errorf("Time() = %q, want 09:07:03", got)
	}
	if got := c.Date(); got != "Tue, 05 Mar 2024" {
		t.Errorf("Date() = %q, want Tue, 05 Mar 2024", got)
	}

	f.set(time.Date(2024, time.March, 6, 23, 59, 59, 0, time.UTC))
	if got := c.Time(); got != "09:07:03" {
		t.Errorf("Time() changed before Tick: %q", got)
	}
	c.Tick()
	if got := c.Time(); got != "23:59:59" {
		t.Errorf("Time() after Tick = %q, want 23:59:59", got)
	}
}

func TestRunRefreshes(t *testing.T) {
	cfg := config.Default().Clock
	cfg.Interval = 5 * time.Millisecond
	f := &fakeNow{t: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	c := New(cfg, f.now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	f.set(time.Date(2024, time.January, 1, 12, 30, 0, 0, time.UTC))
	deadline := time.Now().Add(5 * time.Second)
	for c.Time() != "12:30:00" {
		if time.Now().After(deadline) {
			t.Fatalf("Time() = %q, never refreshed", c.Time())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
