// Package layout defines the key layout model for the Veena camera piano:
// key polygons in layout space, layout bounds, the standard keyboard
// generator, and the paper-layout detector.
package layout

import "math"

// epsilon guards divisions by near-zero edge slopes in the crossing test.
const epsilon = 1e-12

// Point is a 2D point in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance to another point.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in layout space.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Polygon is an ordered sequence of vertices. Polygons may be non-convex
// and are not required to be axis-aligned. A polygon with fewer than three
// vertices is degenerate and never contains any point.
type Polygon []Point

// Contains reports whether p lies inside the polygon, using the
// crossing-number test over the edge list. Points exactly on an edge may
// land on either side; callers must not rely on boundary behavior.
func (poly Polygon) Contains(p Point) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a, b := poly[i], poly[j]

		// Edge straddles the horizontal ray through p.
		if (a.Y > p.Y) != (b.Y > p.Y) {
			dy := b.Y - a.Y
			if math.Abs(dy) < epsilon {
				// Horizontal edge: no crossing contribution.
				j = i
				continue
			}
			crossX := a.X + (p.Y-a.Y)*(b.X-a.X)/dy
			if p.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Centroid returns the mean of the polygon's vertices. Returns the zero
// point for an empty polygon.
func (poly Polygon) Centroid() Point {
	if len(poly) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, v := range poly {
		sx += v.X
		sy += v.Y
	}
	n := float64(len(poly))
	return Point{X: sx / n, Y: sy / n}
}

// Bounds returns the axis-aligned bounding box of the polygon's vertices.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	r := Rect{MinX: poly[0].X, MinY: poly[0].Y, MaxX: poly[0].X, MaxY: poly[0].Y}
	for _, v := range poly[1:] {
		r.MinX = math.Min(r.MinX, v.X)
		r.MinY = math.Min(r.MinY, v.Y)
		r.MaxX = math.Max(r.MaxX, v.X)
		r.MaxY = math.Max(r.MaxY, v.Y)
	}
	return r
}
