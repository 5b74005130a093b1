package game

import (
	"github.com/pthm-cable/msa3d/shapes"
	"github.com/pthm-cable/msa3d/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.particles = g.field.Snapshot(g.particles)
	g.sample = telemetry.SampleField(g.particles, g.field.Generation(), &g.sample)

	stats := g.collector.Flush(g.tick, g.sample)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			g.logger.Error("failed to write field stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
}

// saveSnapshot writes the field state to the output directory.
func (g *Game) saveSnapshot() {
	g.particles = g.field.Snapshot(g.particles)

	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.seed,
		Width:      g.width,
		Height:     g.height,
		Generation: g.field.Generation(),
		Tick:       g.tick,
		Shape:      g.shape,
		Particles:  telemetry.ParticleStates(g.particles),
	}
	if g.shape != "" {
		snap.Points = shapes.Generate(g.shape, g.points)
	}

	path, err := telemetry.SaveSnapshot(snap, g.outputManager.Dir())
	if err != nil {
		g.logger.Error("failed to save snapshot", "error", err)
		return
	}
	g.logger.Info("snapshot saved", "path", path, "tick", g.tick)
}
