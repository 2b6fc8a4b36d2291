package engine

import (
	"github.com/ayusman/veena/internal/detector"
	"github.com/ayusman/veena/internal/layout"
)

// FingerID identifies a tracked fingertip: hand index within the frame plus
// fingertip slot. It is stable only while the same hand keeps the same
// positional index across consecutive frames.
type FingerID struct {
	Hand int
	Tip  detector.Fingertip
}

// fingerState is the per-finger mutable state owned by the motion tracker
// and the trigger decision.
type fingerState struct {
	pos          layout.Point
	lastSeen     int
	restFrames   int
	assignedKey  int // key the finger currently sits on, -1 when none
	triggeredKey int // key of the most recent trigger, -1 before any
	triggeredAt  int // frame of the most recent trigger
}

// motion is the per-frame classification of one finger.
type motion struct {
	firstSight bool
	moving     bool // traveled more than the movement threshold
	pressing   bool // vertical press delta reached the downward threshold
	atRest     bool
}

// tracker maintains fingerState per FingerID and classifies each finger
// every frame as resting, moving, or pressing.
type tracker struct {
	fingers map[FingerID]*fingerState
}

func newTracker() *tracker {
	return &tracker{fingers: make(map[FingerID]*fingerState)}
}

// observe updates the finger's state with its transformed position for this
// frame and returns the motion classification.
//
// A finger seen for the first time starts at rest: a hand entering the frame
// already inside a key polygon must not trigger a note until it moves.
func (t *tracker) observe(id FingerID, p layout.Point, frame int, cfg Config) motion {
	st, ok := t.fingers[id]
	if !ok {
		t.fingers[id] = &fingerState{
			pos:          p,
			lastSeen:     frame,
			restFrames:   cfg.RestFrames,
			assignedKey:  -1,
			triggeredKey: -1,
			triggeredAt:  -(cfg.CooldownFrames + 1),
		}
		return motion{firstSight: true, atRest: true}
	}

	dist := st.pos.DistanceTo(p)
	// Press travel is measured toward the key bed, which is decreasing Y
	// in layout space.
	press := st.pos.Y - p.Y

	m := motion{
		moving:   dist > cfg.MovementThreshold,
		pressing: press >= cfg.DownwardThreshold,
	}

	if m.moving || m.pressing {
		st.restFrames = 0
	} else {
		st.restFrames++
	}
	m.atRest = st.restFrames >= cfg.RestFrames

	st.pos = p
	st.lastSeen = frame
	return m
}

// get returns the state for a finger observed this frame.
func (t *tracker) get(id FingerID) *fingerState {
	return t.fingers[id]
}

// purge removes fingers not seen for more than maxAge frames.
func (t *tracker) purge(frame, maxAge int) {
	for id, st := range t.fingers {
		if frame-st.lastSeen > maxAge {
			delete(t.fingers, id)
		}
	}
}

// clear drops all finger state. Called when a frame reports zero hands:
// there is nothing left to track.
func (t *tracker) clear() {
	t.fingers = make(map[FingerID]*fingerState)
}
