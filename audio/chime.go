// Package audio plays the chime that acknowledges a wake phrase.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/msa3d/config"
)

const bufferDuration = 100 * time.Millisecond

// Chime owns the speaker. All methods are safe on a Chime whose device
// failed to open; they do nothing.
type Chime struct {
	cfg    config.AudioConfig
	rate   beep.SampleRate
	logger *slog.Logger

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates a chime. Call Initialize to open the audio device.
func NewChime(cfg config.AudioConfig, logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		logger: logger,
		mixer:  &beep.Mixer{},
	}
}

// Initialize opens the speaker. A disabled chime never touches the device.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled || c.initialized {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(bufferDuration)); err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Play queues one chime on the mixer.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s, err := ChimeStreamer(c.cfg, c.rate)
	if err != nil {
		c.logger.Warn("chime unavailable", "error", err)
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer and releases the device.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.initialized = false
}

// ChimeStreamer builds the finite chime: each configured note as a sine tone
// of note_duration, played in sequence at the configured volume.
func ChimeStreamer(cfg config.AudioConfig, rate beep.SampleRate) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(cfg.Notes))
	for _, freq := range cfg.Notes {
		tone, err := generators.SineTone(rate, freq)
		if err != nil {
			return nil, fmt.Errorf("note %v Hz: %w", freq, err)
		}
		notes = append(notes, beep.Take(rate.N(cfg.NoteDuration), tone))
	}
	return volume(beep.Seq(notes...), cfg.Volume), nil
}

// volume scales a stream linearly. Zero or less is silence.
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}
