// Package telemetry provides field health tracking, run output and snapshots.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/msa3d/field"
)

// FieldStats holds aggregated statistics for a time window.
type FieldStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Generation      int     `csv:"generation"`

	// Field state sampled at window end
	Particles int `csv:"particles"`
	Targeted  int `csv:"targeted"`

	// Speed distribution (px per tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Mean distance from targeted particles to their targets
	TargetDistMean float64 `csv:"target_dist_mean"`

	// Events during window
	ShapesReceived int `csv:"shapes_received"`
	RequestsSent   int `csv:"requests_sent"`
	SendFailures   int `csv:"send_failures"`
	Wakes          int `csv:"wakes"`
}

// Percentile returns the p-th quantile of a sorted slice using gonum's
// empirical CDF. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(math.Min(math.Max(p, 0), 1), stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean and percentiles from speed values.
func ComputeSpeedStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return stat.Mean(sorted, nil), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// FieldSample is the per-window view of the field used by Flush.
type FieldSample struct {
	Generation int
	Speeds     []float64 // One per particle
	TargetDist []float64 // One per targeted particle
}

// SampleField extracts speeds and target distances from a snapshot.
// The returned slices reuse buf's backing arrays when large enough.
func SampleField(particles []field.Particle, generation int, buf *FieldSample) FieldSample {
	s := FieldSample{Generation: generation}
	if buf != nil {
		s.Speeds = buf.Speeds[:0]
		s.TargetDist = buf.TargetDist[:0]
	}
	for _, p := range particles {
		s.Speeds = append(s.Speeds, math.Hypot(float64(p.VX), float64(p.VY)))
		if p.HasTarget {
			s.TargetDist = append(s.TargetDist, math.Hypot(float64(p.TargetX-p.X), float64(p.TargetY-p.Y)))
		}
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("generation", s.Generation),
		slog.Int("particles", s.Particles),
		slog.Int("targeted", s.Targeted),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("target_dist_mean", s.TargetDistMean),
		slog.Int("shapes_received", s.ShapesReceived),
		slog.Int("requests_sent", s.RequestsSent),
		slog.Int("send_failures", s.SendFailures),
		slog.Int("wakes", s.Wakes),
	)
}

// LogStats logs the window stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("stats", "window", s)
}
