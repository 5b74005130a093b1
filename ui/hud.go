package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Time         string
	Date         string
	ChannelLine  string // Connection status text
	ChannelOK    bool
	VoiceLine    string // Voice status or last transcript
	VoiceOK      bool
	Shape        string // Selected shape
	Particles    int
	Tick         int32
	FPS          int32
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the clock centered near the top and the status lines in the
// top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	th := r.Theme
	cx := data.ScreenWidth / 2

	r.DrawCentered(data.Time, cx, data.ScreenHeight/8, th.ClockFontSize, th.ClockColor)
	r.DrawCentered(data.Date, cx, data.ScreenHeight/8+th.ClockFontSize+8, 20, th.LabelColor)

	y := th.Padding
	rl.DrawText(data.ChannelLine, th.Padding, y, 16, statusColor(th, data.ChannelOK))
	y += 20
	rl.DrawText(data.VoiceLine, th.Padding, y, 16, statusColor(th, data.VoiceOK))
	y += 20
	rl.DrawText(
		fmt.Sprintf("Shape: %s | Particles: %d | Tick: %d | FPS: %d", data.Shape, data.Particles, data.Tick, data.FPS),
		th.Padding, y, 14, th.LabelColor,
	)
}

func statusColor(th Theme, ok bool) rl.Color {
	if ok {
		return th.StatusOK
	}
	return th.StatusWarn
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.renderer.Theme.Padding, screenHeight-25, 14, rl.Gray)
}

// ControlsLegend builds the legend text for the given shapes.
func ControlsLegend(shapeNames []string) string {
	keys := make([]string, len(shapeNames))
	for i, s := range shapeNames {
		keys[i] = fmt.Sprintf("%d=%s", i+1, s)
	}
	return strings.Join(keys, " ") + " | W=wake | Click=inspect | P=perf | Esc=quit"
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	visible  bool
}

// NewPerfPanel creates a hidden perf panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Toggle switches panel visibility.
func (p *PerfPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the panel when visible.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	if !p.visible {
		return
	}
	r := p.renderer
	th := r.Theme
	const width, height = 240, 120

	r.DrawPanel(p.x, p.y, width, height)
	x, y := p.x+th.Padding, p.y+th.Padding

	rl.DrawText("Tick Performance", x, y, th.HeaderFontSize, th.SectionHeader)
	y += th.LineHeight + 4

	y = r.DrawLabelValue(x, y, "avg tick", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "fps", fmt.Sprintf("%.0f", stats.FPS))
	for _, phase := range []string{telemetry.PhaseMessages, telemetry.PhaseStep, telemetry.PhaseTelemetry} {
		y = r.DrawLabelValue(x, y, phase, fmt.Sprintf("%5.1f%%", stats.PhasePct[phase]))
	}
}
