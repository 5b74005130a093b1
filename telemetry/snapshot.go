package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/msa3d/field"
	"github.com/pthm-cable/msa3d/shapes"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the field state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width      float32 `json:"width"`
	Height     float32 `json:"height"`
	Generation int     `json:"generation"`
	Tick       int32   `json:"tick"`

	// Last shape applied to the field, if any
	Shape  string         `json:"shape,omitempty"`
	Points []shapes.Point `json:"points,omitempty"`

	Particles []ParticleState `json:"particles"`
}

// ParticleState holds one particle's state.
type ParticleState struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	VelX      float32 `json:"vel_x"`
	VelY      float32 `json:"vel_y"`
	TargetX   float32 `json:"target_x,omitempty"`
	TargetY   float32 `json:"target_y,omitempty"`
	HasTarget bool    `json:"has_target"`
}

// ParticleStates converts a field snapshot to its JSON form.
func ParticleStates(particles []field.Particle) []ParticleState {
	out := make([]ParticleState, len(particles))
	for i, p := range particles {
		out[i] = ParticleState{
			X:         p.X,
			Y:         p.Y,
			VelX:      p.VX,
			VelY:      p.VY,
			TargetX:   p.TargetX,
			TargetY:   p.TargetY,
			HasTarget: p.HasTarget,
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Shape != "" {
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, filepath.Base(snapshot.Shape))
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
