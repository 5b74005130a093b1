// Package components defines the ECS components of the particle field.
package components

// Position is a particle's location in viewport pixels.
type Position struct {
	X, Y float32 `inspect:"label,fmt:%.1f"`
}

// Velocity is a particle's displacement per tick, in pixels.
type Velocity struct {
	X, Y float32 `inspect:"label,fmt:%.3f"`
}
