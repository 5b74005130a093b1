package telemetry

import "gonum.org/v1/gonum/stat"

// Collector accumulates events within time windows and produces FieldStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	shapesReceived int
	requestsSent   int
	sendFailures   int
	wakes          int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordShape records a shape response applied to the field.
func (c *Collector) RecordShape() {
	c.shapesReceived++
}

// RecordRequest records a request handed to the channel. Failed sends are
// counted separately.
func (c *Collector) RecordRequest(err error) {
	if err != nil {
		c.sendFailures++
		return
	}
	c.requestsSent++
}

// RecordWake records a detected wake phrase.
func (c *Collector) RecordWake() {
	c.wakes++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a FieldStats from the sample and resets counters for the
// next window.
func (c *Collector) Flush(currentTick int32, sample FieldSample) FieldStats {
	speedMean, speedP50, speedP90 := ComputeSpeedStats(sample.Speeds)

	var distMean float64
	if len(sample.TargetDist) > 0 {
		distMean = stat.Mean(sample.TargetDist, nil)
	}

	stats := FieldStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Generation:      sample.Generation,

		Particles: len(sample.Speeds),
		Targeted:  len(sample.TargetDist),

		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,

		TargetDistMean: distMean,

		ShapesReceived: c.shapesReceived,
		RequestsSent:   c.requestsSent,
		SendFailures:   c.sendFailures,
		Wakes:          c.wakes,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.shapesReceived = 0
	c.requestsSent = 0
	c.sendFailures = 0
	c.wakes = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
