package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/msa3d/field"
	"github.com/pthm-cable/msa3d/shapes"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		Width:      1280,
		Height:     720,
		Generation: 3,
		Tick:       1000,
		Shape:      shapes.Square,
		Points:     shapes.Generate(shapes.Square, 8),
		Particles: ParticleStates([]field.Particle{
			{X: 150, Y: 250, VX: 0.5, VY: -0.3},
			{X: 10, Y: 20, TargetX: 128, TargetY: 72, HasTarget: true},
		}),
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if got := filepath.Base(path); got != "snapshot_1000_square.json" {
		t.Errorf("file name = %q, want snapshot_1000_square.json", got)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if diff := cmp.Diff(snapshot, loaded); diff != "" {
		t.Errorf("snapshot mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSnapshotWithoutShape(t *testing.T) {
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 7}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "snapshot_7.json" {
		t.Errorf("file name = %q, want snapshot_7.json", got)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":99,"particles":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadSnapshot(path)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("LoadSnapshot() = %v, want version error", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(1); i <= 2; i++ {
		if err := om.WriteStats(FieldStats{WindowEndTick: i * 300, Particles: 65}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, i*300); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fieldstats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("fieldstats.csv has %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,generation,particles") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "600,") {
		t.Errorf("second row = %q, want window_end 600", lines[2])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(perf), "window_end"); n != 1 {
		t.Errorf("perf.csv header written %d times, want 1", n)
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteStats(FieldStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager has a dir")
	}
}
