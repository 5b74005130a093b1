package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseMessages)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseStep)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseMessages, PhaseStep} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseTelemetry]; ok {
		t.Error("telemetry phase tracked without being started")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStep)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseTelemetry)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseStep)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseStep] <= stats.PhasePct[PhaseTelemetry] {
		t.Errorf("expected step (%v%%) > telemetry (%v%%)",
			stats.PhasePct[PhaseStep], stats.PhasePct[PhaseTelemetry])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with a 16ms frame, got %v", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseMessages:  10,
			PhaseStep:      80,
			PhaseTelemetry: 5,
		},
		TicksPerSecond: 4000,
	}
	row := s.ToCSV(300)

	if row.WindowEnd != 300 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.MessagesPct != 10 || row.StepPct != 80 || row.TelemetryPct != 5 {
		t.Errorf("phase columns = %v/%v/%v, want 10/80/5", row.MessagesPct, row.StepPct, row.TelemetryPct)
	}
}
