// Package field implements the animated particle field that forms shapes.
//
// Particles live in an ark ECS world. A field generation is created by Reset
// for a given viewport and stays fixed in size until the next Reset; Step
// advances every particle once, and AssignTargets steers them toward a shape.
package field

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/msa3d/components"
	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/shapes"
)

// Params are the integrator constants, converted once from config.
type Params struct {
	Attraction    float32
	TargetDamping float32
	IdleDamping   float32
	Jitter        float32
}

// ParamsFromConfig converts field config to integrator constants.
func ParamsFromConfig(cfg config.FieldConfig) Params {
	return Params{
		Attraction:    float32(cfg.Attraction),
		TargetDamping: float32(cfg.TargetDamping),
		IdleDamping:   float32(cfg.IdleDamping),
		Jitter:        float32(cfg.Jitter),
	}
}

// Particle is a flat copy of one particle's components.
type Particle struct {
	X, Y      float32
	VX, VY    float32
	Radius    float32
	TargetX   float32
	TargetY   float32
	HasTarget bool
}

// Field owns a fixed-size set of particles.
type Field struct {
	cfg    config.FieldConfig
	params Params
	rng    *rand.Rand

	world  *ecs.World
	mapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Target,
		components.Slot,
	]
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Target,
		components.Slot,
	]

	width, height float32
	count         int
	generation    int

	grid      spatialGrid
	gridDirty bool // Positions moved since the grid was built
}

// New creates an empty field. Call Reset before stepping.
func New(cfg config.FieldConfig, rng *rand.Rand) *Field {
	f := &Field{
		cfg:    cfg,
		params: ParamsFromConfig(cfg),
		rng:    rng,
	}
	f.newWorld()
	return f
}

func (f *Field) newWorld() {
	f.world = ecs.NewWorld()
	f.mapper = ecs.NewMap5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Target,
		components.Slot,
	](f.world)
	f.filter = ecs.NewFilter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Target,
		components.Slot,
	](f.world)
}

// Count returns the particle count for a viewport: area / density, capped at max_particles.
func Count(cfg config.FieldConfig, width, height float32) int {
	if width <= 0 || height <= 0 || cfg.Density <= 0 {
		return 0
	}
	n := int(math.Floor(float64(width) * float64(height) / cfg.Density))
	return min(n, cfg.MaxParticles)
}

// Reset discards every particle and populates a new generation sized for the
// viewport: uniform random positions, small random velocities, no targets.
func (f *Field) Reset(width, height float32) {
	f.newWorld()
	f.width, f.height = width, height
	f.count = Count(f.cfg, width, height)
	f.generation++
	f.gridDirty = true

	speed := float32(f.cfg.InitialSpeed)
	body := components.Body{Radius: float32(f.cfg.DotRadius)}

	for i := 0; i < f.count; i++ {
		pos := components.Position{X: f.rng.Float32() * width, Y: f.rng.Float32() * height}
		vel := components.Velocity{X: f.uniform(speed), Y: f.uniform(speed)}
		target := components.Target{}
		slot := components.Slot{Index: int32(i)}
		f.mapper.NewEntity(&pos, &vel, &body, &target, &slot)
	}
}

// Step advances every particle by one tick.
func (f *Field) Step() {
	query := f.filter.Query()
	for query.Next() {
		pos, vel, _, target, _ := query.Get()
		step(pos, vel, target, f.params, f.width, f.height, f.rng)
	}
	f.gridDirty = true
}

// step applies one tick to a single particle. Targeted particles are pulled
// toward the target and damped; idle ones get velocity noise and lighter
// damping. Positions wrap toroidally at the viewport edges.
func step(pos *components.Position, vel *components.Velocity, target *components.Target, p Params, width, height float32, rng *rand.Rand) {
	if target.Set {
		vel.X += (target.X - pos.X) * p.Attraction
		vel.Y += (target.Y - pos.Y) * p.Attraction
		vel.X *= p.TargetDamping
		vel.Y *= p.TargetDamping
	} else {
		vel.X += (rng.Float32()*2 - 1) * p.Jitter
		vel.Y += (rng.Float32()*2 - 1) * p.Jitter
		vel.X *= p.IdleDamping
		vel.Y *= p.IdleDamping
	}

	pos.X += vel.X
	pos.Y += vel.Y

	pos.X = wrap(pos.X, width)
	pos.Y = wrap(pos.Y, height)
}

// wrap moves a coordinate that left [0, size] to the opposite edge.
func wrap(v, size float32) float32 {
	if v < 0 {
		return size
	}
	if v > size {
		return 0
	}
	return v
}

// AssignTargets maps normalized shape points onto the viewport and gives
// particle i the point i mod len(points). An empty point set changes nothing.
func (f *Field) AssignTargets(points []shapes.Point) {
	if len(points) == 0 {
		return
	}

	mapped := make([]components.Target, len(points))
	for i, p := range points {
		mapped[i] = components.Target{
			X:   float32(p.X) * f.width,
			Y:   float32(p.Y) * f.height,
			Set: true,
		}
	}

	query := f.filter.Query()
	for query.Next() {
		_, _, _, target, slot := query.Get()
		*target = mapped[int(slot.Index)%len(mapped)]
	}
}

// Snapshot copies every particle into dst, indexed by slot, and returns it.
func (f *Field) Snapshot(dst []Particle) []Particle {
	if cap(dst) < f.count {
		dst = make([]Particle, f.count)
	}
	dst = dst[:f.count]

	query := f.filter.Query()
	for query.Next() {
		pos, vel, body, target, slot := query.Get()
		dst[slot.Index] = Particle{
			X:         pos.X,
			Y:         pos.Y,
			VX:        vel.X,
			VY:        vel.Y,
			Radius:    body.Radius,
			TargetX:   target.X,
			TargetY:   target.Y,
			HasTarget: target.Set,
		}
	}
	return dst
}

// Components is the full component set of one particle.
type Components struct {
	Position components.Position
	Velocity components.Velocity
	Body     components.Body
	Target   components.Target
	Slot     components.Slot
}

// Lookup returns the components of the particle in the given slot.
func (f *Field) Lookup(slot int) (Components, bool) {
	if slot < 0 || slot >= f.count {
		return Components{}, false
	}
	query := f.filter.Query()
	for query.Next() {
		pos, vel, body, target, s := query.Get()
		if int(s.Index) != slot {
			continue
		}
		c := Components{Position: *pos, Velocity: *vel, Body: *body, Target: *target, Slot: *s}
		query.Close()
		return c, true
	}
	return Components{}, false
}

// Nearest returns the slot of the particle closest to (x, y) within maxDist.
func (f *Field) Nearest(x, y, maxDist float32) (int, bool) {
	if f.gridDirty {
		f.rebuildGrid()
	}
	return f.grid.nearest(x, y, maxDist)
}

func (f *Field) rebuildGrid() {
	f.grid.reset(f.width, f.height, f.count)
	query := f.filter.Query()
	for query.Next() {
		pos, _, _, _, slot := query.Get()
		f.grid.insert(slot.Index, pos.X, pos.Y)
	}
	f.gridDirty = false
}

// Len returns the particle count of the current generation.
func (f *Field) Len() int {
	return f.count
}

// Size returns the viewport the current generation was built for.
func (f *Field) Size() (width, height float32) {
	return f.width, f.height
}

// Generation returns how many times the field has been reset.
func (f *Field) Generation() int {
	return f.generation
}

// Params returns the integrator constants in use.
func (f *Field) Params() Params {
	return f.params
}

// SetParams replaces the integrator constants. Used by the tuning tool.
func (f *Field) SetParams(p Params) {
	f.params = p
}

func (f *Field) uniform(r float32) float32 {
	return (f.rng.Float32()*2 - 1) * r
}
