package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Button layout
const (
	buttonWidth  = 110
	buttonHeight = 30
	buttonGap    = 10
	barMargin    = 50 // Distance from the bottom edge
)

// WakeLabel is the label of the manual wake button.
const WakeLabel = "Wake"

// ShapeAction is what the user asked for this frame.
type ShapeAction struct {
	Shape string // Non-empty when a shape button was clicked
	Wake  bool   // True when the wake button was clicked
}

// ShapeBar is a centered row of shape buttons followed by a wake button.
type ShapeBar struct {
	shapes   []string
	selected int
}

// NewShapeBar creates a bar with the first shape selected.
func NewShapeBar(shapes []string) *ShapeBar {
	return &ShapeBar{shapes: shapes}
}

// Shapes returns the button labels in order.
func (b *ShapeBar) Shapes() []string {
	return b.shapes
}

// Select marks shape i as selected. Out-of-range indexes are ignored.
func (b *ShapeBar) Select(i int) bool {
	if i < 0 || i >= len(b.shapes) {
		return false
	}
	b.selected = i
	return true
}

// Selected returns the selected shape name, or "" when there are no shapes.
func (b *ShapeBar) Selected() string {
	if len(b.shapes) == 0 {
		return ""
	}
	return b.shapes[b.selected]
}

// Bounds returns the rectangle of every button for a screen size: one per
// shape, then the wake button last.
func (b *ShapeBar) Bounds(screenWidth, screenHeight int32) []rl.Rectangle {
	n := len(b.shapes) + 1
	total := float32(n*buttonWidth + (n-1)*buttonGap)
	x := (float32(screenWidth) - total) / 2
	y := float32(screenHeight - barMargin - buttonHeight)

	rects := make([]rl.Rectangle, n)
	for i := range rects {
		rects[i] = rl.Rectangle{
			X:      x + float32(i*(buttonWidth+buttonGap)),
			Y:      y,
			Width:  buttonWidth,
			Height: buttonHeight,
		}
	}
	return rects
}

// Contains reports whether a point falls on any button.
func (b *ShapeBar) Contains(x, y float32, screenWidth, screenHeight int32) bool {
	for _, r := range b.Bounds(screenWidth, screenHeight) {
		if x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height {
			return true
		}
	}
	return false
}

// Draw renders the buttons and returns the click of this frame.
// Clicking a shape also selects it.
func (b *ShapeBar) Draw(screenWidth, screenHeight int32) ShapeAction {
	var action ShapeAction
	rects := b.Bounds(screenWidth, screenHeight)

	for i, name := range b.shapes {
		label := name
		if i == b.selected {
			label = "[" + name + "]"
		}
		if gui.Button(rects[i], label) {
			b.selected = i
			action.Shape = name
		}
	}
	if gui.Button(rects[len(rects)-1], WakeLabel) {
		action.Wake = true
	}
	return action
}
