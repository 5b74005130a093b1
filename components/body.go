package components

// Body holds the drawn size of a particle.
type Body struct {
	Radius float32 `inspect:"label,fmt:%.1f"`
}

// Target is the pixel-space point a particle is steered toward.
// Set is false until the first shape arrives and never goes back.
type Target struct {
	X, Y float32 `inspect:"label,fmt:%.1f"`
	Set  bool    `inspect:"bool"`
}

// Slot is the particle's index within its field generation. Target
// assignment maps slot i to shape point i mod len(points).
type Slot struct {
	Index int32 `inspect:"label"`
}
