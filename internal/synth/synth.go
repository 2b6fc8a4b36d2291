// Package synth turns note events into sound. The default backend shells
// out to a small Python helper speaking JSON lines; LogSynth and MockSynth
// back headless and test setups.
package synth

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Synth is the note sink the play loop drives. Implementations must be safe
// for calls from a single goroutine; the loop never calls concurrently.
type Synth interface {
	NoteOn(note string) error
	NoteOff(note string) error
	// AllOff silences everything. Called on layout swaps and shutdown.
	AllOff() error
	Close() error
}

// ErrBadNote is returned for note names that do not parse.
var ErrBadNote = errors.New("bad note name")

var semitones = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "F": 5,
	"F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10,
	"Bb": 10, "B": 11,
}

// MIDINumber converts a scientific pitch name such as "C4" or "F#3" to its
// MIDI note number (C4 = 60). Returns ErrBadNote for anything else.
func MIDINumber(note string) (int, error) {
	if len(note) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, note)
	}

	split := 1
	if note[1] == '#' || note[1] == 'b' {
		split = 2
	}
	if split >= len(note) {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, note)
	}

	semi, ok := semitones[note[:split]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, note)
	}
	octave, err := strconv.Atoi(note[split:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNote, note)
	}

	n := (octave+1)*12 + semi
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("%w: %q out of MIDI range", ErrBadNote, note)
	}
	return n, nil
}

// LogSynth writes note events to the log instead of making sound. Used when
// no audio backend is configured.
type LogSynth struct {
	sounding map[string]bool
}

func NewLogSynth() *LogSynth {
	return &LogSynth{sounding: make(map[string]bool)}
}

func (s *LogSynth) NoteOn(note string) error {
	s.sounding[note] = true
	log.Printf("synth: note on %s", note)
	return nil
}

func (s *LogSynth) NoteOff(note string) error {
	delete(s.sounding, note)
	log.Printf("synth: note off %s", note)
	return nil
}

func (s *LogSynth) AllOff() error {
	if len(s.sounding) == 0 {
		return nil
	}
	notes := make([]string, 0, len(s.sounding))
	for n := range s.sounding {
		notes = append(notes, n)
	}
	s.sounding = make(map[string]bool)
	log.Printf("synth: all off (%s)", strings.Join(notes, " "))
	return nil
}

func (s *LogSynth) Close() error {
	return s.AllOff()
}
