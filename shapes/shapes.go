// Package shapes generates normalized point sets that approximate named shapes.
//
// Every generator is a pure function of (shape, count): no randomness, no
// state. Output coordinates live in the unit square with the shape centered
// near (0.5, 0.5).
package shapes

import "math"

// Shape names with a dedicated generator. Any other name yields the grid.
const (
	Circle    = "circle"
	Square    = "square"
	Rectangle = "rectangle"
)

const (
	circleRadius = 0.35

	squareMin  = 0.2
	squareSide = 0.6

	rectWidth  = 0.6
	rectHeight = 0.35

	gridColumns = 20
)

// Point is a 2D coordinate. Generator output is normalized to [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Known reports whether shape has a dedicated generator.
func Known(shape string) bool {
	switch shape {
	case Circle, Square, Rectangle:
		return true
	}
	return false
}

// Generate returns exactly count points approximating shape.
// Unknown shapes resolve to a 20-column grid; count <= 0 yields an empty slice.
func Generate(shape string, count int) []Point {
	if count <= 0 {
		return []Point{}
	}

	switch shape {
	case Circle:
		return circle(count)
	case Square:
		return perimeter(squareMin, squareMin, squareSide, squareSide, count)
	case Rectangle:
		return perimeter(0.5-rectWidth/2, 0.5-rectHeight/2, rectWidth, rectHeight, count)
	default:
		return grid(count)
	}
}

func circle(count int) []Point {
	pts := make([]Point, count)
	for i := range pts {
		theta := float64(i) / float64(count) * 2 * math.Pi
		pts[i] = Point{
			X: 0.5 + circleRadius*math.Cos(theta),
			Y: 0.5 + circleRadius*math.Sin(theta),
		}
	}
	return pts
}

// perimeter walks the rectangle with top-left corner (x0, y0) clockwise:
// top, right, bottom, left, n = count/4 points per side (at least 1).
// When 4n < count the walk is repeated from the start, then cut to count.
func perimeter(x0, y0, w, h float64, count int) []Point {
	n := count / 4
	if n == 0 {
		n = 1
	}
	x1, y1 := x0+w, y0+h

	pts := make([]Point, 0, 4*n)
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: x0 + w*frac(i, n), Y: y0})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: x1, Y: y0 + h*frac(i, n)})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: x1 - w*frac(i, n), Y: y1})
	}
	for i := 0; i < n; i++ {
		pts = append(pts, Point{X: x0, Y: y1 - h*frac(i, n)})
	}

	for len(pts) < count {
		pts = append(pts, pts...)
	}
	return pts[:count:count]
}

// grid lays points row by row on a 20-column lattice, wrapping after 20 rows.
func grid(count int) []Point {
	pts := make([]Point, count)
	for i := range pts {
		row := (i / gridColumns) % gridColumns
		pts[i] = Point{
			X: float64(i%gridColumns) / gridColumns,
			Y: float64(row) / gridColumns,
		}
	}
	return pts
}

func frac(i, n int) float64 {
	return float64(i) / float64(n)
}
