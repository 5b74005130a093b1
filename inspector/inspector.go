// Package inspector shows the components of a clicked particle.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/field"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 30

	// pickRadius is how far from a particle a click still selects it.
	pickRadius = 8
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector tracks the selected particle. A selection belongs to one field
// generation and is dropped when the field is reset.
type Inspector struct {
	slot        int
	generation  int
	hasSelected bool

	panelX, panelY int32
}

// NewInspector creates an inspector whose panel sits at the right edge.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth)
	return ins
}

// Resize moves the panel after a viewport change.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleClick selects the particle nearest the click, or deselects when the
// close button is hit. Clicks inside the open panel are ignored.
func (ins *Inspector) HandleClick(x, y float32, f *field.Field) {
	if ins.hasSelected {
		if ins.inCloseButton(x, y) {
			ins.Deselect()
			return
		}
		if ins.inPanel(x, y) {
			return
		}
	}

	if slot, ok := f.Nearest(x, y, pickRadius); ok {
		ins.slot = slot
		ins.generation = f.Generation()
		ins.hasSelected = true
	}
}

func (ins *Inspector) inCloseButton(x, y float32) bool {
	cx, cy := float32(ins.panelX+PanelWidth-25), float32(ins.panelY+5)
	return x >= cx && x <= cx+20 && y >= cy && y <= cy+20
}

func (ins *Inspector) inPanel(x, y float32) bool {
	return x >= float32(ins.panelX) && x <= float32(ins.panelX+PanelWidth) && y >= float32(ins.panelY)
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected slot while it belongs to f's current generation.
func (ins *Inspector) Selected(f *field.Field) (int, bool) {
	if !ins.hasSelected || ins.generation != f.Generation() {
		return 0, false
	}
	return ins.slot, true
}

// Draw renders the panel for the selected particle.
func (ins *Inspector) Draw(f *field.Field) {
	slot, ok := ins.Selected(f)
	if !ok {
		ins.Deselect()
		return
	}
	c, ok := f.Lookup(slot)
	if !ok {
		ins.Deselect()
		return
	}

	sections := ExtractSections(c)
	height := int32(HeaderHeight + 2*PanelPadding)
	for _, s := range sections {
		height += 22 + 20*int32(len(s.Fields))
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("PARTICLE %d", slot), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX, closeY := ins.panelX+PanelWidth-25, ins.panelY+5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, s := range sections {
		rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
		rl.DrawText(s.Title, x+2, y, 14, ColorSectionText)
		y += 22
		for _, fld := range s.Fields {
			y += DrawField(x, y, fld)
		}
	}
}

// DrawSelectionHighlight rings the selected particle and its target.
func (ins *Inspector) DrawSelectionHighlight(f *field.Field) {
	slot, ok := ins.Selected(f)
	if !ok {
		return
	}
	c, ok := f.Lookup(slot)
	if !ok {
		return
	}

	rl.DrawCircleLines(int32(c.Position.X), int32(c.Position.Y), c.Body.Radius*4, rl.Yellow)
	if c.Target.Set {
		rl.DrawLineV(
			rl.Vector2{X: c.Position.X, Y: c.Position.Y},
			rl.Vector2{X: c.Target.X, Y: c.Target.Y},
			rl.Color{R: 255, G: 220, B: 100, A: 90},
		)
		rl.DrawCircleLines(int32(c.Target.X), int32(c.Target.Y), 3, rl.Yellow)
	}
}
