package layout

import (
	"math"
	"testing"
)

func TestPolygon_Contains_Square(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{5, 5}, true},
		{"near corner inside", Point{0.5, 0.5}, true},
		{"outside right", Point{11, 5}, false},
		{"outside above", Point{5, -1}, false},
		{"far away", Point{100, 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := square.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygon_Contains_NonConvex(t *testing.T) {
	// L-shaped polygon: a 10x10 square with the top-right 5x5 quadrant removed.
	lShape := Polygon{{0, 0}, {5, 0}, {5, 5}, {10, 5}, {10, 10}, {0, 10}}

	if !lShape.Contains(Point{2, 2}) {
		t.Error("expected point in the vertical arm to be inside")
	}
	if !lShape.Contains(Point{8, 8}) {
		t.Error("expected point in the horizontal arm to be inside")
	}
	if lShape.Contains(Point{8, 2}) {
		t.Error("expected point in the removed quadrant to be outside")
	}
}

func TestPolygon_Contains_Degenerate(t *testing.T) {
	// Fewer than three vertices never contains anything.
	line := Polygon{{0, 0}, {10, 10}}
	if line.Contains(Point{5, 5}) {
		t.Error("degenerate polygon must not contain any point")
	}

	var empty Polygon
	if empty.Contains(Point{0, 0}) {
		t.Error("empty polygon must not contain any point")
	}
}

func TestPolygon_Contains_HorizontalEdge(t *testing.T) {
	// A polygon with a horizontal edge at the ray height must not produce
	// NaN or a wrong crossing count.
	poly := Polygon{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	if !poly.Contains(Point{2, 5}) {
		t.Error("expected point level with a horizontal edge to be inside")
	}
}

func TestPolygon_Centroid(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	c := square.Centroid()
	if c.X != 5 || c.Y != 5 {
		t.Errorf("Centroid() = %v, want (5,5)", c)
	}
}

func TestPolygon_Bounds(t *testing.T) {
	tri := Polygon{{-3, 2}, {7, -1}, {4, 9}}
	b := tri.Bounds()
	if b.MinX != -3 || b.MinY != -1 || b.MaxX != 7 || b.MaxY != 9 {
		t.Errorf("Bounds() = %+v", b)
	}
	if math.Abs(b.Width()-10) > 1e-9 || math.Abs(b.Height()-10) > 1e-9 {
		t.Errorf("Width/Height = %v, %v, want 10, 10", b.Width(), b.Height())
	}
}
