package engine

import "github.com/ayusman/veena/internal/detector"

// Stabilizer exponentially smooths raw landmark positions frame-to-frame to
// suppress tracker jitter. Hands are matched positionally: the first raw
// hand updates the first stored hand, and so on. When a hand disappears the
// hands after it shift down one slot, briefly blending two physical hands;
// this is an accepted approximation, not identity tracking.
type Stabilizer struct {
	hands []detector.Hand
}

// NewStabilizer creates an empty Stabilizer.
func NewStabilizer() *Stabilizer {
	return &Stabilizer{}
}

// Smooth folds the raw hand list into the running average and returns the
// stabilized hands. A hand index with no prior state is seeded with the raw
// values unchanged, so a newly appearing hand starts with zero lag. The
// returned slice is a copy; mutating it cannot corrupt the running average.
func (s *Stabilizer) Smooth(raw []detector.Hand, alpha float64) []detector.Hand {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}

	for i := range raw {
		if i >= len(s.hands) {
			s.hands = append(s.hands, raw[i])
			continue
		}
		prev := &s.hands[i]
		for j := 0; j < detector.NumLandmarks; j++ {
			p := &prev.Points[j]
			q := raw[i].Points[j]
			p.X += (q.X - p.X) * alpha
			p.Y += (q.Y - p.Y) * alpha
			p.Z += (q.Z - p.Z) * alpha
		}
		prev.Handedness = raw[i].Handedness
		prev.Score = raw[i].Score
	}

	// Drop state for hands no longer detected.
	if len(raw) < len(s.hands) {
		s.hands = s.hands[:len(raw)]
	}

	out := make([]detector.Hand, len(s.hands))
	copy(out, s.hands)
	return out
}
