package engine

import (
	"math"

	"github.com/ayusman/veena/internal/layout"
)

// Transform describes how the key layout is rendered into the display:
// pan, zoom, rotation, and axis flips, anchored at the layout bounding-box
// center and the display center. It is supplied by the host each frame and
// read-only to the engine.
type Transform struct {
	// Scale is the zoom factor; values <= 0 are treated as 1.
	Scale float64 `json:"scale"`
	// OffsetX, OffsetY pan the layout relative to the display center, in
	// display pixels.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	// Rotation is the render rotation in radians.
	Rotation float64 `json:"rotation"`
	// FlipX, FlipY mirror the layout around its center.
	FlipX bool `json:"flip_x"`
	FlipY bool `json:"flip_y"`
	// ViewW, ViewH are the display dimensions in pixels. Normalized
	// landmark coordinates are scaled by these before hit-testing.
	ViewW float64 `json:"view_w"`
	ViewH float64 `json:"view_h"`
}

// IdentityTransform returns a no-op transform for the given display size.
func IdentityTransform(viewW, viewH float64) Transform {
	return Transform{Scale: 1, ViewW: viewW, ViewH: viewH}
}

func (t Transform) scale() float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

// ToScreen maps a layout-space point to display space: re-center on the
// layout bounds, flip, scale, rotate, then translate to the display center
// plus the pan offset.
func (t Transform) ToScreen(p layout.Point, bounds layout.Rect) layout.Point {
	lc := bounds.Center()

	x := p.X - lc.X
	y := p.Y - lc.Y

	if t.FlipX {
		x = -x
	}
	if t.FlipY {
		y = -y
	}

	s := t.scale()
	x *= s
	y *= s

	sin, cos := math.Sincos(t.Rotation)
	rx := x*cos - y*sin
	ry := x*sin + y*cos

	return layout.Point{
		X: rx + t.ViewW/2 + t.OffsetX,
		Y: ry + t.ViewH/2 + t.OffsetY,
	}
}

// ToLayout maps a display-space point back into layout space. It is the
// exact algebraic inverse of ToScreen; if the two ever disagree,
// hit-testing silently breaks, so keep them in lockstep (see the
// round-trip test).
func (t Transform) ToLayout(p layout.Point, bounds layout.Rect) layout.Point {
	x := p.X - t.ViewW/2 - t.OffsetX
	y := p.Y - t.ViewH/2 - t.OffsetY

	sin, cos := math.Sincos(-t.Rotation)
	rx := x*cos - y*sin
	ry := x*sin + y*cos

	s := t.scale()
	rx /= s
	ry /= s

	if t.FlipX {
		rx = -rx
	}
	if t.FlipY {
		ry = -ry
	}

	lc := bounds.Center()
	return layout.Point{X: rx + lc.X, Y: ry + lc.Y}
}
