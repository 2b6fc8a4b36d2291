package engine

import (
	"sort"

	"github.com/ayusman/veena/internal/layout"
)

// EventType distinguishes note-on from note-off.
type EventType int

const (
	// NoteOn signals that a note starts sounding.
	NoteOn EventType = iota
	// NoteOff signals that a note stops sounding.
	NoteOff
)

// String returns the event type name.
func (t EventType) String() string {
	if t == NoteOn {
		return "noteOn"
	}
	return "noteOff"
}

// Event is one note state change emitted by the engine.
type Event struct {
	Type EventType `json:"type"`
	// Note is the note identifier of the key that changed state.
	Note string `json:"note"`
	// KeyIndex is the layout index of the key that changed state.
	KeyIndex int `json:"keyIndex"`
}

// emitter diffs the stable active key set against the previous frame's and
// emits note events. Note identifiers are not necessarily unique to one key
// index, so sounding notes are refcounted: note-on fires only when an
// identifier starts sounding, note-off only when the last key sharing it
// releases.
type emitter struct {
	prev     map[int]bool
	sounding map[string]int
}

func newEmitter() *emitter {
	return &emitter{
		prev:     make(map[int]bool),
		sounding: make(map[string]int),
	}
}

// diff computes the events for this frame. Within the frame, note-offs come
// first, then note-ons, each ordered by the key's left-to-right position
// (centroid X ascending) for deterministic, musically sensible sequencing.
func (em *emitter) diff(active map[int]bool, l *layout.Layout) []Event {
	var offs, ons []int

	for idx := range em.prev {
		if !active[idx] {
			offs = append(offs, idx)
		}
	}
	for idx := range active {
		if !em.prev[idx] {
			ons = append(ons, idx)
		}
	}

	sortByKeyX(offs, l)
	sortByKeyX(ons, l)

	var events []Event
	for _, idx := range offs {
		note := em.noteFor(idx, l)
		if note == "" {
			continue
		}
		em.sounding[note]--
		if em.sounding[note] <= 0 {
			delete(em.sounding, note)
			events = append(events, Event{Type: NoteOff, Note: note, KeyIndex: idx})
		}
	}
	for _, idx := range ons {
		note := em.noteFor(idx, l)
		if note == "" {
			continue
		}
		em.sounding[note]++
		if em.sounding[note] == 1 {
			events = append(events, Event{Type: NoteOn, Note: note, KeyIndex: idx})
		}
	}

	em.prev = make(map[int]bool, len(active))
	for idx := range active {
		em.prev[idx] = true
	}
	return events
}

// noteFor resolves a key index to its note identifier, or "" when the key
// no longer exists in the layout.
func (em *emitter) noteFor(idx int, l *layout.Layout) string {
	if k := l.Key(idx); k != nil {
		return k.Note
	}
	return ""
}

// reset drops the diff baseline and the sounding refcounts.
func (em *emitter) reset() {
	em.prev = make(map[int]bool)
	em.sounding = make(map[string]int)
}

// sortByKeyX orders key indices by their polygon centroid X, falling back
// to index order for keys missing from the layout.
func sortByKeyX(indices []int, l *layout.Layout) {
	sort.Slice(indices, func(i, j int) bool {
		a, b := l.Key(indices[i]), l.Key(indices[j])
		if a == nil || b == nil {
			return indices[i] < indices[j]
		}
		ax, bx := a.Polygon.Centroid().X, b.Polygon.Centroid().X
		if ax == bx {
			return indices[i] < indices[j]
		}
		return ax < bx
	})
}
