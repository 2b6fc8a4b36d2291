package app

import (
	"log"
	"time"

	"github.com/ayusman/veena/internal/detector"
	"github.com/ayusman/veena/internal/engine"
)

// eventMessage is the wire form of a note event pushed to UI clients.
type eventMessage struct {
	Type     string `json:"type"` // "note_on" or "note_off"
	Note     string `json:"note"`
	KeyIndex int    `json:"key_index"`
}

// activeKeysMessage is pushed whenever the set of sounding keys changes, so
// the UI can highlight held keys without polling.
type activeKeysMessage struct {
	Type string `json:"type"` // "active_keys"
	Keys []int  `json:"keys"`
}

// runPipeline is the play loop. It paces frame capture with a ticker,
// switching between the idle and active rates based on motion, and feeds
// every processed frame through the trigger engine.
//
// Loop shape per tick:
//  1. read a frame, run motion detection
//  2. motion switches to the active rate; quiet past the idle timeout
//     switches back
//  3. in active mode, detect hands and step the engine
//  4. outside active mode (or with playing disabled) step the engine with
//     no hands, so sounding notes drain instead of hanging
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	idleFPS, activeFPS, idleAfter := a.loopRates()

	activeMode := false
	lastMotion := time.Now()

	ticker := time.NewTicker(time.Second / time.Duration(idleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			// Final empty frame so in-flight notes flow through the
			// smoother, then silence whatever is still sounding.
			a.step(nil)
			if err := a.synth.AllOff(); err != nil {
				log.Printf("Error silencing synth: %v", err)
			}
			return

		case <-ticker.C:
			if !a.IsEnabled() {
				a.step(nil)
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(activeFPS)
					ticker.Reset(time.Second / time.Duration(activeFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > idleAfter {
				activeMode = false
				a.camera.SetFPS(idleFPS)
				ticker.Reset(time.Second / time.Duration(idleFPS))
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				a.step(nil)
				continue
			}

			hands, err := a.detector.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.step(hands)
		}
	}
}

// loopRates reads the pacing settings once at loop start. Rate changes
// require a restart; engine tuning does not.
func (a *App) loopRates() (idleFPS, activeFPS int, idleAfter time.Duration) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings.Camera.IdleFPS, a.settings.Camera.FPS,
		time.Duration(a.settings.Camera.IdleAfterMs) * time.Millisecond
}

// step runs one engine frame: queued layout and tuning changes are applied
// first, then the hand list, and the resulting events go to the synth and
// the event hub.
func (a *App) step(hands []detector.Hand) {
	a.mu.Lock()
	swapped := false
	if a.hasPending {
		a.engine.SetLayout(a.pendingLayout)
		a.pendingLayout = nil
		a.hasPending = false
		swapped = true
	}
	if a.pendingCfg != nil {
		a.engine.SetConfig(*a.pendingCfg)
		a.lastCfg = a.engine.Config()
		a.pendingCfg = nil
	}
	t := a.transform
	onNote := a.onNote
	a.mu.Unlock()

	// The engine never emits note-offs across a layout swap; silence the
	// old layout's notes here.
	if swapped {
		if err := a.synth.AllOff(); err != nil {
			log.Printf("Error silencing synth: %v", err)
		}
	}

	events := a.engine.Step(engine.Frame{Hands: hands, Transform: t})
	for _, ev := range events {
		a.dispatch(ev, onNote)
	}

	a.mu.Lock()
	keys := a.engine.ActiveKeys()
	changed := !equalKeys(keys, a.activeKeys)
	a.activeKeys = keys
	a.mu.Unlock()

	if changed && a.events != nil {
		a.events.Broadcast(activeKeysMessage{Type: "active_keys", Keys: keys})
	}
}

// equalKeys compares two sorted key index slices.
func equalKeys(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dispatch sends one note event to the synth and the event hub. onNote is
// the callback snapshot taken under the lock at the top of the frame.
func (a *App) dispatch(ev engine.Event, onNote func(note string)) {
	var err error
	msgType := "note_on"
	switch ev.Type {
	case engine.NoteOn:
		err = a.synth.NoteOn(ev.Note)
		if onNote != nil {
			onNote(ev.Note)
		}
	case engine.NoteOff:
		err = a.synth.NoteOff(ev.Note)
		msgType = "note_off"
	}
	if err != nil {
		log.Printf("Synth error on %s %s: %v", msgType, ev.Note, err)
	}

	if a.events != nil {
		a.events.Broadcast(eventMessage{Type: msgType, Note: ev.Note, KeyIndex: ev.KeyIndex})
	}
}
