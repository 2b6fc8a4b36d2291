package engine

import "sort"

// assertion is one key asserted this frame, with whether any asserting
// finger was a thumb and the key centroid's distance to the nearest tracked
// fingertip.
type assertion struct {
	keyIndex int
	thumb    bool
	dist     float64
}

// limitConcurrent caps the number of simultaneously asserted keys. When the
// cap is exceeded and a thumb-held key is present, that key is always kept
// plus the single nearest other; with no thumb key the nearest maxKeys are
// kept. This models natural two-note chords while stopping multi-key floods
// from overlapping detections.
func limitConcurrent(asserted []assertion, maxKeys int) []assertion {
	if len(asserted) <= maxKeys {
		return asserted
	}

	byDist := make([]assertion, len(asserted))
	copy(byDist, asserted)
	sort.Slice(byDist, func(i, j int) bool {
		return byDist[i].dist < byDist[j].dist
	})

	var thumb *assertion
	for i := range byDist {
		if byDist[i].thumb {
			thumb = &byDist[i]
			break
		}
	}

	if thumb == nil {
		return byDist[:maxKeys]
	}

	kept := []assertion{*thumb}
	for i := range byDist {
		if len(kept) >= maxKeys {
			break
		}
		if byDist[i].keyIndex == thumb.keyIndex {
			continue
		}
		kept = append(kept, byDist[i])
	}
	return kept
}
