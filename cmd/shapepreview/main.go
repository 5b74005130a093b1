// Shape preview tool - interactive view of shape point sets and how the
// particle field settles onto them.
//
// Usage: go run ./cmd/shapepreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/field"
	"github.com/pthm-cable/msa3d/shapes"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewW     = 640
	previewH     = 480
	previewX     = 10
	previewY     = 10
	panelWidth   = windowWidth - previewW - 30
)

var shapeNames = []string{shapes.Circle, shapes.Square, shapes.Rectangle, "grid"}

// PreviewParams holds the tunable values.
type PreviewParams struct {
	Shape         string
	PointCount    int
	Attraction    float32
	TargetDamping float32
	IdleDamping   float32
	Jitter        float32
}

func defaultParams(cfg *config.Config) PreviewParams {
	return PreviewParams{
		Shape:         cfg.Shape.Default,
		PointCount:    cfg.Shape.PointCount,
		Attraction:    float32(cfg.Field.Attraction),
		TargetDamping: float32(cfg.Field.TargetDamping),
		IdleDamping:   float32(cfg.Field.IdleDamping),
		Jitter:        float32(cfg.Field.Jitter),
	}
}

func main() {
	cfg := config.Default()

	rl.InitWindow(windowWidth, windowHeight, "Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	params := defaultParams(cfg)

	f := field.New(cfg.Field, rand.New(rand.NewSource(1)))
	f.Reset(previewW, previewH)

	points := shapes.Generate(params.Shape, params.PointCount)
	f.AssignTargets(points)

	var particles []field.Particle
	running := true
	needsShape := false

	for !rl.WindowShouldClose() {
		if needsShape {
			points = shapes.Generate(params.Shape, params.PointCount)
			f.AssignTargets(points)
			needsShape = false
		}

		f.SetParams(field.Params{
			Attraction:    params.Attraction,
			TargetDamping: params.TargetDamping,
			IdleDamping:   params.IdleDamping,
			Jitter:        params.Jitter,
		})
		if running {
			f.Step()
		}
		particles = f.Snapshot(particles)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview area
		rl.DrawRectangle(previewX, previewY, previewW, previewH, rl.Black)
		for _, p := range particles {
			rl.DrawCircleV(rl.Vector2{X: previewX + p.X, Y: previewY + p.Y}, p.Radius, rl.White)
		}
		for _, pt := range points {
			x := previewX + float32(pt.X)*previewW
			y := previewY + float32(pt.Y)*previewH
			rl.DrawRectangleV(rl.Vector2{X: x - 1, Y: y - 1}, rl.Vector2{X: 2, Y: 2}, rl.Red)
		}
		rl.DrawRectangleLines(previewX, previewY, previewW, previewH, rl.DarkGray)

		// Stats
		var targeted int
		var dist float64
		for _, p := range particles {
			if p.HasTarget {
				targeted++
				dx, dy := float64(p.TargetX-p.X), float64(p.TargetY-p.Y)
				dist += dx*dx + dy*dy
			}
		}
		statsY := int32(previewY + previewH + 15)
		rl.DrawText(fmt.Sprintf("Particles: %d  Points: %d  Targeted: %d", len(particles), len(points), targeted), 15, statsY, 16, rl.DarkGray)
		if targeted > 0 {
			rl.DrawText(fmt.Sprintf("Mean sq. target distance: %.1f", dist/float64(targeted)), 15, statsY+20, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewX + previewW + 10)
		panelY := float32(10)

		rl.DrawText("Shape", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30
		for i, name := range shapeNames {
			bx := panelX + float32(i%2)*130
			by := panelY + float32(i/2)*40
			label := name
			if name == params.Shape {
				label = "[" + name + "]"
			}
			if gui.Button(rl.Rectangle{X: bx, Y: by, Width: 120, Height: 30}, label) {
				params.Shape = name
				needsShape = true
			}
		}
		panelY += 90

		slider := func(title, minLabel, maxLabel, valueFmt string, value, lo, hi float32) float32 {
			rl.DrawText(title, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minLabel, maxLabel,
				value, lo, hi,
			)
			rl.DrawText(fmt.Sprintf(valueFmt, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if n := int(slider("Point count", "1", "1000", "%.0f", float32(params.PointCount), 1, 1000)); n != params.PointCount {
			params.PointCount = n
			needsShape = true
		}
		params.Attraction = slider("Attraction (gain per px)", "0", "0.05", "%.4f", params.Attraction, 0, 0.05)
		params.TargetDamping = slider("Target damping", "0.5", "1.0", "%.3f", params.TargetDamping, 0.5, 1.0)
		params.IdleDamping = slider("Idle damping", "0.5", "1.0", "%.3f", params.IdleDamping, 0.5, 1.0)
		params.Jitter = slider("Idle jitter", "0", "0.5", "%.3f", params.Jitter, 0, 0.5)

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(running, "Pause", "Run")) {
			running = !running
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Scatter") {
			f.Reset(previewW, previewH)
			needsShape = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			needsShape = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := toYAML(params)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toYAML(p PreviewParams) string {
	return fmt.Sprintf(`field:
  attraction: %.4f
  target_damping: %.3f
  idle_damping: %.3f
  jitter: %.3f
shape:
  point_count: %d
  default: %s`,
		p.Attraction, p.TargetDamping, p.IdleDamping, p.Jitter, p.PointCount, p.Shape)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
