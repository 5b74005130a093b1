package shapes

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestGenerateCount(t *testing.T) {
	counts := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 13, 50, 199, 200, 201, 1000}
	for _, shape := range []string{Circle, Square, Rectangle, "hexagon", ""} {
		for _, count := range counts {
			if got := len(Generate(shape, count)); got != count {
				t.Errorf("len(Generate(%q, %d)) = %d, want %d", shape, count, got, count)
			}
		}
	}
}

func TestGenerateNonPositiveCount(t *testing.T) {
	for _, shape := range []string{Circle, Square, Rectangle, "anything"} {
		for _, count := range []int{0, -1, -200} {
			pts := Generate(shape, count)
			if pts == nil || len(pts) != 0 {
				t.Errorf("Generate(%q, %d) = %v, want empty non-nil slice", shape, count, pts)
			}
		}
	}
}

func TestCircle(t *testing.T) {
	for _, count := range []int{1, 3, 200, 999} {
		pts := Generate(Circle, count)

		prev := -1.0
		for i, p := range pts {
			dx, dy := p.X-0.5, p.Y-0.5
			if r := math.Hypot(dx, dy); r > circleRadius+1e-9 {
				t.Fatalf("count=%d point %d at radius %v, outside %v", count, i, r, circleRadius)
			}

			angle := math.Atan2(dy, dx)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if i == 0 && math.Abs(angle) > 1e-12 {
				t.Errorf("count=%d first angle = %v, want 0", count, angle)
			}
			if angle <= prev {
				t.Fatalf("count=%d angle not increasing at %d: %v <= %v", count, i, angle, prev)
			}
			prev = angle
		}
	}
}

func TestSquareWalk(t *testing.T) {
	want := []Point{
		{0.2, 0.2}, {0.5, 0.2},
		{0.8, 0.2}, {0.8, 0.5},
		{0.8, 0.8}, {0.5, 0.8},
		{0.2, 0.8}, {0.2, 0.5},
	}
	if diff := cmp.Diff(want, Generate(Square, 8), approx); diff != "" {
		t.Errorf("square walk mismatch (-want +got):\n%s", diff)
	}
}

func TestPerimeterPaddingRepeatsWalk(t *testing.T) {
	// 5 points: n=1, the 4-point walk is duplicated then cut, so index 4 restarts at the corner.
	pts := Generate(Square, 5)
	if diff := cmp.Diff(pts[0], pts[4], approx); diff != "" {
		t.Errorf("padding should repeat first point (-want +got):\n%s", diff)
	}

	// 201 points: n=50, 200 generated, then the walk repeats from its start.
	pts = Generate(Rectangle, 201)
	if diff := cmp.Diff(pts[0], pts[200], approx); diff != "" {
		t.Errorf("rectangle padding should repeat first point (-want +got):\n%s", diff)
	}
}

func TestRectangleBounds(t *testing.T) {
	minX, maxX := 0.5-rectWidth/2, 0.5+rectWidth/2
	minY, maxY := 0.5-rectHeight/2, 0.5+rectHeight/2

	for i, p := range Generate(Rectangle, 200) {
		onVertical := math.Abs(p.X-minX) < 1e-9 || math.Abs(p.X-maxX) < 1e-9
		onHorizontal := math.Abs(p.Y-minY) < 1e-9 || math.Abs(p.Y-maxY) < 1e-9
		if !onVertical && !onHorizontal {
			t.Fatalf("point %d %+v is not on the rectangle outline", i, p)
		}
		if p.X < minX-1e-9 || p.X > maxX+1e-9 || p.Y < minY-1e-9 || p.Y > maxY+1e-9 {
			t.Fatalf("point %d %+v outside rectangle", i, p)
		}
	}
}

func TestFallbackGrid(t *testing.T) {
	pts := Generate("anything-unrecognized", 50)

	for i, p := range pts {
		want := Point{
			X: float64(i%20) / 20,
			Y: float64((i/20)%20) / 20,
		}
		if diff := cmp.Diff(want, p, approx); diff != "" {
			t.Errorf("point %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	if diff := cmp.Diff(pts, Generate("anything-unrecognized", 50)); diff != "" {
		t.Errorf("repeated calls differ (-first +second):\n%s", diff)
	}
}

func TestFallbackGridWrapsRows(t *testing.T) {
	pts := Generate("grid", 401)
	// Row index wraps after 20 rows: point 400 sits back on row 0.
	if pts[400].Y != 0 || pts[400].X != 0 {
		t.Errorf("point 400 = %+v, want origin", pts[400])
	}
	if got, want := pts[399].Y, 19.0/20; got != want {
		t.Errorf("point 399 y = %v, want %v", got, want)
	}
}

func TestKnown(t *testing.T) {
	tests := []struct {
		shape string
		want  bool
	}{
		{Circle, true},
		{Square, true},
		{Rectangle, true},
		{"grid", false},
		{"Circle", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Known(tt.shape); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.shape, got, tt.want)
		}
	}
}
