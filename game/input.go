package game

import rl "github.com/gen2brain/raylib-go/raylib"

var shapeKeys = []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive, rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine}

// Update handles input and runs one simulation step.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()
	g.simulationStep()
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	for i, key := range shapeKeys {
		if rl.IsKeyPressed(key) {
			g.RequestShape(i)
		}
	}

	if rl.IsKeyPressed(rl.KeyW) {
		g.Wake()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.perfPanel.Toggle()
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.inspector.Deselect()
	}

	// Clicks on the shape bar are handled by its buttons during Draw.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if !g.shapeBar.Contains(m.X, m.Y, int32(g.width), int32(g.height)) {
			g.inspector.HandleClick(m.X, m.Y, g.field)
		}
	}
}

// handleResize checks for window resize and regenerates the field.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}
