package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// DrawLabel renders a text value and returns the height used.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return 20
}

// DrawBar renders a horizontal bar filled to value/max.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := min(max(value/GetMax(options), 0), 1)

	const barWidth, barHeight = int32(120), int32(14)
	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, ColorBarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(x+80, y, 14, 14, color)
	rl.DrawText(text, x+99, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Options)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Options)
}
