// Package renderer draws the particle field.
package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer clears the frame to a dark vertical gradient.
type BackgroundRenderer struct {
	top, bottom rl.Color
}

// NewBackgroundRenderer creates a background fading from top to bottom.
func NewBackgroundRenderer(top, bottom rl.Color) *BackgroundRenderer {
	return &BackgroundRenderer{top: top, bottom: bottom}
}

// DefaultBackground is near-black with a slight blue cast at the bottom.
func DefaultBackground() *BackgroundRenderer {
	return NewBackgroundRenderer(
		rl.Color{R: 5, G: 5, B: 8, A: 255},
		rl.Color{R: 12, G: 16, B: 28, A: 255},
	)
}

// Draw fills the viewport.
func (b *BackgroundRenderer) Draw(width, height int32) {
	rl.ClearBackground(b.top)
	rl.DrawRectangleGradientV(0, 0, width, height, b.top, b.bottom)
}
