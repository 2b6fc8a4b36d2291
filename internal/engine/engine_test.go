package engine

import (
	"testing"

	"github.com/ayusman/veena/internal/detector"
	"github.com/ayusman/veena/internal/layout"
)

// scenarioConfig returns a config tuned for deterministic scenario tests:
// raw landmarks (alpha 1) and a one-frame hysteresis window so every
// assertion shows up as an event on the same Step.
func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.MovementThreshold = 8
	cfg.DownwardThreshold = 3.5
	cfg.RestFrames = 3
	cfg.CooldownFrames = 6
	cfg.SmoothingAlpha = 1
	cfg.SmoothingWindow = 1
	cfg.ActivationThreshold = 1
	cfg.DeactivationThreshold = 0.5
	cfg.BandPosition = 0 // everything below the separator: all keys white
	cfg.BandDeadZone = 0
	return cfg
}

// whiteRow builds n adjacent white keys, each 10x10, left to right from x=0.
func whiteRow(n int) *layout.Layout {
	notes := []string{"C4", "D4", "E4", "F4", "G4"}
	keys := make([]layout.Key, n)
	for i := 0; i < n; i++ {
		x := float64(i) * 10
		keys[i] = layout.Key{
			Note: notes[i], Type: layout.KeyWhite, Index: i,
			Polygon: layout.Polygon{{x, 0}, {x + 10, 0}, {x + 10, 10}, {x, 10}},
		}
	}
	return layout.New(keys)
}

// rowFrame places one fingertip at layout coordinates (x, y) over a whiteRow
// layout of n keys. The view matches the layout bounds, so the transform is
// the identity and layout coordinates can be used directly.
func rowFrame(n int, tip detector.Fingertip, x, y float64) Frame {
	w := float64(n) * 10
	return Frame{
		Hands:     []detector.Hand{detector.HandWithFingertip(tip, x/w, y/10)},
		Transform: IdentityTransform(w, 10),
	}
}

func eventCounts(events []Event) (ons, offs int) {
	for _, ev := range events {
		switch ev.Type {
		case NoteOn:
			ons++
		case NoteOff:
			offs++
		}
	}
	return ons, offs
}

// A finger entering the frame already inside a key must not trigger until it
// presses. The first frame is gated as first sight; a downward move past the
// downward threshold on the next frame produces exactly one note-on.
func TestEngine_PressTriggersAfterFirstSight(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(1))

	events := e.Step(rowFrame(1, detector.FingertipIndex, 5, 5))
	if len(events) != 0 {
		t.Fatalf("first sight emitted %v, want nothing", events)
	}

	events = e.Step(rowFrame(1, detector.FingertipIndex, 5, 1))
	if len(events) != 1 || events[0].Type != NoteOn || events[0].Note != "C4" {
		t.Fatalf("press emitted %v, want one C4 note-on", events)
	}
}

// A stationary finger inside a key triggers at most once: after the rest
// window it is gated outright, and before that the cooldown holds it.
func TestEngine_RestingFingerTriggersAtMostOnce(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(1))

	var ons int
	e.Step(rowFrame(1, detector.FingertipIndex, 5, 9))
	events := e.Step(rowFrame(1, detector.FingertipIndex, 5, 5))
	n, _ := eventCounts(events)
	ons += n

	for i := 0; i < 10; i++ {
		events = e.Step(rowFrame(1, detector.FingertipIndex, 5, 5))
		n, _ = eventCounts(events)
		ons += n
	}
	if ons != 1 {
		t.Fatalf("stationary finger produced %d note-ons, want 1", ons)
	}
}

// A continuously pressing finger re-asserts its key every frame, so the note
// sustains with no off/on flicker until the finger stops.
func TestEngine_SustainedPressHoldsNote(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(1))

	e.Step(rowFrame(1, detector.FingertipIndex, 5, 9))

	var ons, offs int
	for _, y := range []float64{5, 1} {
		n, f := eventCounts(e.Step(rowFrame(1, detector.FingertipIndex, 5, y)))
		ons += n
		offs += f
	}
	if ons != 1 || offs != 0 {
		t.Fatalf("sustained press: %d ons / %d offs, want 1 / 0", ons, offs)
	}

	// Finger stops: the key drains out through the smoother.
	_, offs = eventCounts(e.Step(rowFrame(1, detector.FingertipIndex, 5, 1)))
	if offs != 1 {
		t.Fatalf("stop after sustain emitted %d offs, want 1", offs)
	}
}

// Sliding onto a different key re-triggers immediately even inside the
// cooldown window.
func TestEngine_KeyChangeBypassesCooldown(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(2))

	e.Step(rowFrame(2, detector.FingertipIndex, 5, 5))
	events := e.Step(rowFrame(2, detector.FingertipIndex, 5, 1))
	if len(events) != 1 || events[0].Note != "C4" {
		t.Fatalf("press emitted %v, want C4 note-on", events)
	}

	// Slide to the adjacent key: below both movement and downward
	// thresholds, one frame after the trigger.
	events = e.Step(rowFrame(2, detector.FingertipIndex, 11, 1))

	var gotOn, gotOff bool
	for _, ev := range events {
		if ev.Type == NoteOn && ev.Note == "D4" {
			gotOn = true
		}
		if ev.Type == NoteOff && ev.Note == "C4" {
			gotOff = true
		}
	}
	if !gotOn || !gotOff {
		t.Fatalf("key change emitted %v, want D4 on and C4 off", events)
	}
}

// More keys pressed at once than the cap allows: only MaxActiveKeys keys
// activate, and a thumb press survives the cut even when other fingertips
// sit closer to their keys.
func TestEngine_ConcurrencyCap(t *testing.T) {
	cfg := scenarioConfig()
	cfg.MaxActiveKeys = 2
	e := New(cfg)
	e.SetLayout(whiteRow(3))

	w := 30.0
	norm := func(x, y float64) detector.Point3D {
		return detector.Point3D{X: x / w, Y: y / 10}
	}
	frame := func(tips map[detector.Fingertip]detector.Point3D) Frame {
		return Frame{
			Hands:     []detector.Hand{detector.HandWithFingertips(tips)},
			Transform: IdentityTransform(w, 10),
		}
	}

	// The thumb lands near the edge of its key, farther from the centroid
	// than the index and middle tips are from theirs.
	e.Step(frame(map[detector.Fingertip]detector.Point3D{
		detector.FingertipIndex:  norm(5, 5),
		detector.FingertipMiddle: norm(15, 5),
		detector.FingertipThumb:  norm(20.5, 9),
	}))
	events := e.Step(frame(map[detector.Fingertip]detector.Point3D{
		detector.FingertipIndex:  norm(5, 1),
		detector.FingertipMiddle: norm(15, 1),
		detector.FingertipThumb:  norm(20.5, 5),
	}))

	ons, _ := eventCounts(events)
	if ons != 2 {
		t.Fatalf("three simultaneous presses emitted %d note-ons, want 2", ons)
	}
	var thumbKey bool
	for _, ev := range events {
		if ev.Type == NoteOn && ev.Note == "E4" {
			thumbKey = true
		}
	}
	if !thumbKey {
		t.Errorf("thumb's key not among note-ons: %v", events)
	}
	if got := len(e.ActiveKeys()); got != 2 {
		t.Errorf("ActiveKeys() = %d keys, want 2", got)
	}
}

// With the default five-frame window, activation takes three asserted frames
// and release drains over four empty frames.
func TestEngine_HysteresisTiming(t *testing.T) {
	cfg := scenarioConfig()
	cfg.SmoothingWindow = 5
	cfg.ActivationThreshold = 0.6
	cfg.DeactivationThreshold = 0.3
	e := New(cfg)

	// One tall key so the finger can keep pressing for several frames.
	e.SetLayout(layout.New([]layout.Key{{
		Note: "C4", Type: layout.KeyWhite, Index: 0,
		Polygon: layout.Polygon{{0, 0}, {10, 0}, {10, 30}, {0, 30}},
	}}))

	frameAt := func(y float64) Frame {
		return Frame{
			Hands:     []detector.Hand{detector.HandWithFingertip(detector.FingertipIndex, 0.5, y/30)},
			Transform: IdentityTransform(10, 30),
		}
	}

	e.Step(frameAt(26))
	var onFrame int
	for i, y := range []float64{22, 18, 14} {
		ons, _ := eventCounts(e.Step(frameAt(y)))
		if ons > 0 {
			onFrame = i + 1
		}
	}
	if onFrame != 3 {
		t.Fatalf("note-on after %d asserted frames, want 3", onFrame)
	}

	var offFrame int
	for i := 1; i <= 6; i++ {
		_, offs := eventCounts(e.Step(Frame{}))
		if offs > 0 {
			offFrame = i
			break
		}
	}
	if offFrame != 4 {
		t.Fatalf("note-off after %d empty frames, want 4", offFrame)
	}
}

// A frame with zero hands clears finger tracking; held notes still drain
// through the smoother rather than cutting off statelessly.
func TestEngine_ZeroHandsClearsFingers(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(1))

	e.Step(rowFrame(1, detector.FingertipIndex, 5, 5))
	e.Step(rowFrame(1, detector.FingertipIndex, 5, 1))

	events := e.Step(Frame{})
	if len(events) != 1 || events[0].Type != NoteOff {
		t.Fatalf("empty frame emitted %v, want one note-off", events)
	}
	if len(e.tracker.fingers) != 0 {
		t.Errorf("tracker holds %d fingers after empty frame, want 0", len(e.tracker.fingers))
	}
}

// Without a layout the engine idles: frames are consumed, nothing is emitted.
func TestEngine_NoLayoutIdles(t *testing.T) {
	e := New(scenarioConfig())

	for _, y := range []float64{9.0, 5.0, 1.0} {
		if events := e.Step(rowFrame(1, detector.FingertipIndex, 5, y)); len(events) != 0 {
			t.Fatalf("layoutless engine emitted %v", events)
		}
	}
	if keys := e.ActiveKeys(); len(keys) != 0 {
		t.Errorf("ActiveKeys() = %v, want none", keys)
	}
}

// Replacing the layout resets all per-key and per-finger state. The engine
// does not emit note-offs for the old layout; the host silences those.
func TestEngine_SetLayoutResetsState(t *testing.T) {
	e := New(scenarioConfig())
	e.SetLayout(whiteRow(1))

	e.Step(rowFrame(1, detector.FingertipIndex, 5, 5))
	e.Step(rowFrame(1, detector.FingertipIndex, 5, 1))
	if len(e.ActiveKeys()) != 1 {
		t.Fatal("expected an active key before layout swap")
	}

	e.SetLayout(whiteRow(2))
	if keys := e.ActiveKeys(); len(keys) != 0 {
		t.Errorf("ActiveKeys() = %v after layout swap, want none", keys)
	}
	if events := e.Step(Frame{}); len(events) != 0 {
		t.Errorf("post-swap empty frame emitted %v, want nothing", events)
	}
}

func TestEngine_SetConfigSanitizes(t *testing.T) {
	e := New(DefaultConfig())

	bad := DefaultConfig()
	bad.SmoothingAlpha = 2
	bad.ActivationThreshold = 0.2
	bad.DeactivationThreshold = 0.8
	e.SetConfig(bad)

	got := e.Config()
	if got.SmoothingAlpha != 1 {
		t.Errorf("SmoothingAlpha = %v, want clamped to 1", got.SmoothingAlpha)
	}
	if got.DeactivationThreshold > got.ActivationThreshold {
		t.Errorf("hysteresis band still crossed: act %v < deact %v",
			got.ActivationThreshold, got.DeactivationThreshold)
	}
}
