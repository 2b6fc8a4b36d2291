package engine

import (
	"sort"

	"github.com/ayusman/veena/internal/layout"
)

// candidate is a key whose polygon contains the probed point, with the
// distance from the point to the polygon centroid.
type candidate struct {
	key  *layout.Key
	dist float64
}

// resolveHits returns the keys containing the layout-space point p, band
// filtered and ranked nearest-centroid first. The top candidate is the
// selected key for the probing finger this frame.
//
// The band separator divides the layout vertically: above it (smaller Y,
// minus the dead-band) only black keys are accepted, below it only white
// keys. Inside the dead-band both types pass, so a finger hovering exactly
// on the boundary does not flicker between key types.
func resolveHits(p layout.Point, l *layout.Layout, cfg Config) []candidate {
	if l.Empty() {
		return nil
	}

	bounds := l.Bounds()
	separator := bounds.MinY + cfg.BandPosition*bounds.Height()
	dead := cfg.BandDeadZone * bounds.Height()

	var out []candidate
	keys := l.Keys()
	for i := range keys {
		k := &keys[i]
		if !k.Valid() {
			continue
		}

		switch {
		case p.Y < separator-dead && k.Type != layout.KeyBlack:
			continue
		case p.Y > separator+dead && k.Type != layout.KeyWhite:
			continue
		}

		if !k.Polygon.Contains(p) {
			continue
		}

		out = append(out, candidate{
			key:  k,
			dist: p.DistanceTo(k.Polygon.Centroid()),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].dist < out[j].dist
	})
	return out
}
