package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/ui"
)

// Draw renders the field, HUD and controls.
func (g *Game) Draw() {
	rl.BeginDrawing()

	w, h := int32(g.width), int32(g.height)

	g.background.Draw(w, h)

	g.particles = g.field.Snapshot(g.particles)
	g.dots.Draw(g.particles)
	g.inspector.DrawSelectionHighlight(g.field)

	chLine, chOK, voiceLine, voiceOK := g.StatusLines()
	g.hud.Draw(ui.HUDData{
		Time:         g.clock.Time(),
		Date:         g.clock.Date(),
		ChannelLine:  chLine,
		ChannelOK:    chOK,
		VoiceLine:    voiceLine,
		VoiceOK:      voiceOK,
		Shape:        g.SelectedShape(),
		Particles:    len(g.particles),
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		ScreenWidth:  w,
		ScreenHeight: h,
	})

	action := g.shapeBar.Draw(w, h)
	if action.Shape != "" {
		g.RequestShape(g.shapeIndex(action.Shape))
	}
	if action.Wake {
		g.Wake()
	}

	g.perfPanel.Draw(g.perfCollector.Stats())
	g.inspector.Draw(g.field)
	g.hud.DrawControls(h, g.legend)

	rl.EndDrawing()
}

func (g *Game) shapeIndex(name string) int {
	for i, s := range g.shapeBar.Shapes() {
		if s == name {
			return i
		}
	}
	return -1
}
