// Package clock keeps the formatted wall-clock strings shown by the viewer.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/pthm-cable/msa3d/config"
)

// Clock refreshes a formatted time and date on a fixed interval.
type Clock struct {
	cfg config.ClockConfig
	now func() time.Time

	mu   sync.RWMutex
	time string
	date string
}

// New creates a clock and formats the current time once. A nil now uses time.Now.
func New(cfg config.ClockConfig, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	c := &Clock{cfg: cfg, now: now}
	c.Tick()
	return c
}

// Run refreshes the clock every interval until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick refreshes the strings immediately.
func (c *Clock) Tick() {
	t := c.now()
	ts, ds := t.Format(c.cfg.TimeLayout), t.Format(c.cfg.DateLayout)

	c.mu.Lock()
	c.time, c.date = ts, ds
	c.mu.Unlock()
}

// Time returns the last formatted time of day.
func (c *Clock) Time() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

// Date returns the last formatted date.
func (c *Clock) Date() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date
}
