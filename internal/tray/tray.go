// Package tray provides the system tray interface for the Veena camera
// piano.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu: a play/pause toggle, the last played note,
// a link to the setup page, and quit.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	menuToggle   *systray.MenuItem
	menuLastNote *systray.MenuItem
}

// New creates a Tray with playing enabled by default.
func New() *Tray {
	return &Tray{enabled: true}
}

// OnToggle sets the callback for the play/pause toggle.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback for the setup menu item.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. Blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Veena")
	systray.SetTooltip("Veena Camera Piano")

	t.menuToggle = systray.AddMenuItem("● Playing", "Toggle note playing")
	systray.AddSeparator()

	t.menuLastNote = systray.AddMenuItem("Last note: none", "Last played note")
	t.menuLastNote.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Setup...", "Open the setup page in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Veena")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Playing")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetLastNote updates the last played note shown in the menu.
func (t *Tray) SetLastNote(note string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastNote != nil {
		if note == "" {
			t.menuLastNote.SetTitle("Last note: none")
		} else {
			t.menuLastNote.SetTitle("Last note: " + note)
		}
	}
}

// IsEnabled returns the current toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
