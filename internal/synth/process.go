package synth

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// command is one JSON line sent to the audio helper's stdin.
type command struct {
	Event string `json:"event"`
	Note  string `json:"note,omitempty"`
	MIDI  int    `json:"midi,omitempty"`
}

// ProcessSynth drives a Python audio helper over a pipe, one JSON object per
// line. The helper starts lazily on the first note and stays up for the life
// of the synth; note timing matters, so there is no idle shutdown.
type ProcessSynth struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started bool
}

// NewProcessSynth creates a subprocess-backed synth. It fails fast when the
// audio helper script cannot be located.
func NewProcessSynth() (*ProcessSynth, error) {
	if findSynthScript() == "" {
		return nil, fmt.Errorf("synth_service.py not found")
	}
	return &ProcessSynth{}, nil
}

func (s *ProcessSynth) NoteOn(note string) error {
	midi, err := MIDINumber(note)
	if err != nil {
		return err
	}
	return s.send(command{Event: "note_on", Note: note, MIDI: midi})
}

func (s *ProcessSynth) NoteOff(note string) error {
	midi, err := MIDINumber(note)
	if err != nil {
		return err
	}
	return s.send(command{Event: "note_off", Note: note, MIDI: midi})
}

func (s *ProcessSynth) AllOff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	return s.write(command{Event: "all_off"})
}

// Close silences the helper and shuts it down.
func (s *ProcessSynth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.write(command{Event: "all_off"})

	if s.stdin != nil {
		s.stdin.Close()
	}
	err := s.cmd.Wait()
	s.cmd = nil
	s.stdin = nil
	s.started = false
	return err
}

func (s *ProcessSynth) send(c command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return err
	}
	return s.write(c)
}

func (s *ProcessSynth) write(c command) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal synth command: %w", err)
	}
	if _, err := s.stdin.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write synth command: %w", err)
	}
	return nil
}

func (s *ProcessSynth) ensureStarted() error {
	if s.started {
		return nil
	}

	scriptPath := findSynthScript()
	if scriptPath == "" {
		return fmt.Errorf("synth_service.py not found")
	}

	pythonPath := findSynthPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	s.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start synth service: %w", err)
	}

	s.stdin = stdin
	s.started = true
	return nil
}

// findSynthScript locates synth_service.py relative to the working
// directory, the executable, or the user's Veena directory.
func findSynthScript() string {
	return firstExisting([]string{
		"scripts/synth_service.py",
		"../scripts/synth_service.py",
		filepath.Join(execDir(), "scripts/synth_service.py"),
		filepath.Join(os.Getenv("HOME"), ".veena/scripts/synth_service.py"),
	})
}

func findSynthPython() string {
	return firstExisting([]string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir(), "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".veena/venv/bin/python"),
	})
}

func execDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(execPath)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
