package engine

import "gonum.org/v1/gonum/stat"

// keyHistory is a fixed-capacity rolling window of binary detection samples
// for one key: 1 when a finger asserted the key that frame, 0 otherwise.
type keyHistory struct {
	samples []float64
}

// push appends a sample, evicting the oldest once the window is full.
func (h *keyHistory) push(sample float64, window int) {
	if len(h.samples) >= window {
		n := copy(h.samples, h.samples[len(h.samples)-window+1:])
		h.samples = h.samples[:n]
	}
	h.samples = append(h.samples, sample)
}

// rate returns the mean of the window: the fraction of recent frames in
// which the key was asserted.
func (h *keyHistory) rate() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return stat.Mean(h.samples, nil)
}

// smoother converts the raw per-frame assertion set into the stable active
// key set using two independent thresholds over each key's rolling history.
// The gap between the thresholds is the hysteresis band: inside it a key
// keeps its prior state, which stops rapid on/off flicker near the boundary.
type smoother struct {
	histories map[int]*keyHistory
	active    map[int]bool
}

func newSmoother() *smoother {
	return &smoother{
		histories: make(map[int]*keyHistory),
		active:    make(map[int]bool),
	}
}

// observe appends this frame's samples and applies the hysteresis
// transitions. Histories are created lazily on a key's first assertion;
// every existing history receives a sample each frame, including frames
// with no hands at all, so active keys fade out over several frames instead
// of cutting instantly on a tracking dropout.
func (s *smoother) observe(asserted map[int]bool, cfg Config) {
	for idx := range asserted {
		if s.histories[idx] == nil {
			// A fresh history starts as all-zero so the detection rate
			// climbs from 0 instead of jumping straight to 1 on the first
			// asserted frame.
			s.histories[idx] = &keyHistory{samples: make([]float64, cfg.SmoothingWindow)}
		}
	}

	for idx, h := range s.histories {
		if asserted[idx] {
			h.push(1, cfg.SmoothingWindow)
		} else {
			h.push(0, cfg.SmoothingWindow)
		}

		rate := h.rate()
		switch {
		case rate >= cfg.ActivationThreshold:
			s.active[idx] = true
		case rate < cfg.DeactivationThreshold:
			delete(s.active, idx)
			// A fully drained, inactive key needs no further samples.
			if rate == 0 && len(h.samples) >= cfg.SmoothingWindow {
				delete(s.histories, idx)
			}
		}
	}
}

// activeKeys returns the stable active key set.
func (s *smoother) activeKeys() map[int]bool {
	return s.active
}

// reset drops all histories and the active set. Used on layout replacement,
// where key indices change meaning.
func (s *smoother) reset() {
	s.histories = make(map[int]*keyHistory)
	s.active = make(map[int]bool)
}
