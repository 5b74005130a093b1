package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/field"
)

// ParticleRenderer draws every particle as a filled circle.
type ParticleRenderer struct {
	color rl.Color
}

// NewParticleRenderer creates a renderer drawing white dots.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{color: rl.White}
}

// Draw renders all particles at their radius.
func (r *ParticleRenderer) Draw(particles []field.Particle) {
	for i := range particles {
		p := &particles[i]
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, p.Radius, r.color)
	}
}
