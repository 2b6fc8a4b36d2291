package engine

import (
	"testing"

	"github.com/ayusman/veena/internal/layout"
)

// bandLayout builds two overlapping keys straddling the band separator: a
// white key covering the full height and a black key covering the top 60%.
// Layout bounds are (0,0)-(100,100); with BandPosition 0.45 the separator
// sits at y=45.
func bandLayout() *layout.Layout {
	return layout.New([]layout.Key{
		{
			Note: "C4", Type: layout.KeyWhite, Index: 0,
			Polygon: layout.Polygon{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		},
		{
			Note: "C#4", Type: layout.KeyBlack, Index: 1,
			Polygon: layout.Polygon{{20, 0}, {80, 0}, {80, 60}, {20, 60}},
		},
	})
}

func TestResolveHits_BandFilter(t *testing.T) {
	l := bandLayout()
	cfg := DefaultConfig()
	cfg.BandPosition = 0.45
	cfg.BandDeadZone = 0.05

	t.Run("above band accepts only black", func(t *testing.T) {
		// y=30 is above separator(45) minus dead-band(5).
		hits := resolveHits(layout.Point{X: 50, Y: 30}, l, cfg)
		if len(hits) != 1 || hits[0].key.Index != 1 {
			t.Fatalf("hits = %v, want only the black key", hitIndices(hits))
		}
	})

	t.Run("below band accepts only white", func(t *testing.T) {
		// y=70 is below separator plus dead-band; the black key polygon
		// ends at 60 anyway, but a white-only filter applies regardless.
		hits := resolveHits(layout.Point{X: 50, Y: 70}, l, cfg)
		if len(hits) != 1 || hits[0].key.Index != 0 {
			t.Fatalf("hits = %v, want only the white key", hitIndices(hits))
		}
	})

	t.Run("dead band accepts both", func(t *testing.T) {
		// y=45 sits exactly on the separator, inside the dead-band, and
		// inside both polygons.
		hits := resolveHits(layout.Point{X: 50, Y: 45}, l, cfg)
		if len(hits) != 2 {
			t.Fatalf("hits = %v, want both keys", hitIndices(hits))
		}
	})
}

func TestResolveHits_RanksByCentroidDistance(t *testing.T) {
	l := bandLayout()
	cfg := DefaultConfig()

	// In the dead band both keys contain the point. The white key's
	// centroid (50,50) is 5 units from (50,45); the black key's (50,30)
	// is 15 units away, so the white key ranks first.
	hits := resolveHits(layout.Point{X: 50, Y: 45}, l, cfg)
	if len(hits) != 2 {
		t.Fatalf("hits = %v, want 2 candidates", hitIndices(hits))
	}
	if hits[0].key.Index != 0 {
		t.Errorf("top candidate = key %d, want the closer-centroid white key", hits[0].key.Index)
	}
	if hits[0].dist >= hits[1].dist {
		t.Errorf("candidates not sorted by distance: %v then %v", hits[0].dist, hits[1].dist)
	}
}

func TestResolveHits_SkipsInvalidKeys(t *testing.T) {
	l := layout.New([]layout.Key{
		{Note: "C4", Type: layout.KeyWhite, Index: 0, Polygon: layout.Polygon{{0, 0}, {10, 10}}},
		{Note: "D4", Type: layout.KeyWhite, Index: 1, Polygon: layout.Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
	})
	cfg := DefaultConfig()
	cfg.BandPosition = 0 // everything below the band: white keys only

	hits := resolveHits(layout.Point{X: 5, Y: 5}, l, cfg)
	if len(hits) != 1 || hits[0].key.Index != 1 {
		t.Errorf("hits = %v, want only the valid key", hitIndices(hits))
	}
}

func TestResolveHits_EmptyLayout(t *testing.T) {
	if hits := resolveHits(layout.Point{X: 5, Y: 5}, nil, DefaultConfig()); hits != nil {
		t.Errorf("hits on nil layout = %v, want none", hitIndices(hits))
	}
	if hits := resolveHits(layout.Point{X: 5, Y: 5}, layout.New(nil), DefaultConfig()); hits != nil {
		t.Errorf("hits on empty layout = %v, want none", hitIndices(hits))
	}
}

func TestResolveHits_MissesAllPolygons(t *testing.T) {
	l := bandLayout()
	hits := resolveHits(layout.Point{X: 500, Y: 500}, l, DefaultConfig())
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hitIndices(hits))
	}
}

func hitIndices(hits []candidate) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.key.Index
	}
	return out
}
