package engine

import (
	"sort"

	"github.com/ayusman/veena/internal/detector"
	"github.com/ayusman/veena/internal/layout"
)

// Frame is the engine's per-frame input: the tracker's hand list and the
// render transform in effect when the frame was displayed.
type Frame struct {
	Hands     []detector.Hand
	Transform Transform
}

// Engine is the gesture-to-note trigger engine. It owns all mutable state
// (finger tracking, key detection histories, the active key set) and updates
// it in-place on each Step call. It is not safe for concurrent use; the host
// drives it from a single frame loop.
//
// On stop, give the engine one final Step with an empty hand list so
// in-flight notes drain through the hysteresis smoother instead of
// vanishing statelessly.
type Engine struct {
	cfg    Config
	layout *layout.Layout

	stabilizer *Stabilizer
	tracker    *tracker
	smoother   *smoother
	emitter    *emitter

	frame int
}

// New creates an Engine with the given configuration and no layout. Without
// a layout the engine idles: Step consumes frames and emits nothing.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg.sanitize(),
		stabilizer: NewStabilizer(),
		tracker:    newTracker(),
		smoother:   newSmoother(),
		emitter:    newEmitter(),
	}
}

// SetLayout replaces the key layout wholesale. Key indices change meaning
// across layouts, so all per-key and per-finger state is reset; the host is
// responsible for silencing notes that were sounding (engine events will not
// reference the old layout again).
func (e *Engine) SetLayout(l *layout.Layout) {
	e.layout = l
	e.tracker.clear()
	e.smoother.reset()
	e.emitter.reset()
}

// SetConfig replaces the engine configuration. Takes effect at the next
// Step, so reconfiguration is frame-boundary aligned.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg.sanitize()
}

// Config returns the current configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ActiveKeys returns the stable active key indices in ascending order, for
// rendering.
func (e *Engine) ActiveKeys() []int {
	active := e.smoother.activeKeys()
	out := make([]int, 0, len(active))
	for idx := range active {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Step runs one frame through the engine and returns the note events that
// frame produced. The pipeline per frame:
//
//	stabilize landmarks -> transform fingertips into layout space ->
//	classify finger motion -> resolve key hits -> trigger decisions ->
//	concurrency limit -> hysteresis smoothing -> event diff
//
// A frame with no hands clears the per-finger maps but still pushes empty
// samples through the smoother, so held notes fade out over several frames.
func (e *Engine) Step(f Frame) []Event {
	e.frame++

	hands := e.stabilizer.Smooth(f.Hands, e.cfg.SmoothingAlpha)

	asserted := make(map[int]bool)
	if len(hands) == 0 {
		e.tracker.clear()
	} else if !e.layout.Empty() {
		asserted = e.processHands(hands, f.Transform)
	}

	e.tracker.purge(e.frame, e.cfg.FingerMaxAge)
	e.smoother.observe(asserted, e.cfg)
	return e.emitter.diff(e.smoother.activeKeys(), e.layout)
}

// processHands transforms every tracked fingertip into layout space, runs
// motion classification, hit resolution and the trigger decision, and
// returns the concurrency-limited assertion set for this frame.
func (e *Engine) processHands(hands []detector.Hand, t Transform) map[int]bool {
	bounds := e.layout.Bounds()

	vw, vh := t.ViewW, t.ViewH
	if vw <= 0 {
		vw = 1
	}
	if vh <= 0 {
		vh = 1
	}

	fingertips := make([]layout.Point, 0, len(hands)*int(detector.NumFingertips))
	asserts := make(map[int]*assertion)

	for hi := range hands {
		for tip := detector.Fingertip(0); tip < detector.NumFingertips; tip++ {
			lm := hands[hi].Fingertip(tip)
			screen := layout.Point{X: lm.X * vw, Y: lm.Y * vh}
			p := t.ToLayout(screen, bounds)
			fingertips = append(fingertips, p)

			id := FingerID{Hand: hi, Tip: tip}
			m := e.tracker.observe(id, p, e.frame, e.cfg)

			// Hard gate: a just-appeared or resting finger cannot trigger,
			// no matter what polygon it sits in.
			if m.firstSight || m.atRest {
				continue
			}

			candidates := resolveHits(p, e.layout, e.cfg)
			var sel *layout.Key
			if len(candidates) > 0 {
				sel = candidates[0].key
			}

			if decideTrigger(e.tracker.get(id), sel, m, e.frame, e.cfg) {
				a := asserts[sel.Index]
				if a == nil {
					a = &assertion{keyIndex: sel.Index}
					asserts[sel.Index] = a
				}
				if tip == detector.FingertipThumb {
					a.thumb = true
				}
			}
		}
	}

	list := make([]assertion, 0, len(asserts))
	for _, a := range asserts {
		if k := e.layout.Key(a.keyIndex); k != nil {
			a.dist = nearestDistance(fingertips, k.Polygon.Centroid())
		}
		list = append(list, *a)
	}

	out := make(map[int]bool, len(list))
	for _, a := range limitConcurrent(list, e.cfg.MaxActiveKeys) {
		out[a.keyIndex] = true
	}
	return out
}

// nearestDistance returns the distance from p to the closest of the given
// points.
func nearestDistance(points []layout.Point, p layout.Point) float64 {
	best := -1.0
	for _, q := range points {
		d := p.DistanceTo(q)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
