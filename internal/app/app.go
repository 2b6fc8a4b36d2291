// Package app wires the Veena camera piano together: camera frames through
// hand detection into the trigger engine, and note events out to the synth
// and the event hub.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/veena/internal/capture"
	"github.com/ayusman/veena/internal/config"
	"github.com/ayusman/veena/internal/detector"
	"github.com/ayusman/veena/internal/engine"
	"github.com/ayusman/veena/internal/layout"
	"github.com/ayusman/veena/internal/synth"
)

// Broadcaster receives note event messages for connected UI clients.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Config holds the application dependencies. Camera, Detector, and Synth
// may be pre-built for tests; nil fields get real implementations.
type Config struct {
	Settings *config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Synth    synth.Synth
	Events   Broadcaster
}

// App owns the play loop. The trigger engine is confined to that loop; the
// HTTP API hands layout and tuning changes to the App, which applies them at
// the next frame boundary.
type App struct {
	settings *config.Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	synth    synth.Synth
	events   Broadcaster

	engine *engine.Engine

	mu            sync.RWMutex
	enabled       bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	transform     engine.Transform
	lastCfg       engine.Config
	pendingCfg    *engine.Config
	pendingLayout *layout.Layout
	hasPending    bool
	activeKeys    []int
	onNote        func(note string)
}

// OnNote sets a callback invoked from the play loop for every note-on, e.g.
// to update the tray. The play loop snapshots it at each frame boundary, so
// it may be set at any time.
func (a *App) OnNote(fn func(note string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onNote = fn
}

// New creates an App from the given dependencies.
func New(cfg Config) *App {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	a := &App{
		settings: settings,
		camera:   cfg.Camera,
		motion:   capture.NewMotionDetector(settings.Camera.MotionThreshold),
		detector: cfg.Detector,
		synth:    cfg.Synth,
		events:   cfg.Events,
		engine:   engine.New(settings.EngineConfig()),
		lastCfg:  settings.EngineConfig(),
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Options{
			DeviceID: settings.Camera.DeviceID,
			Width:    settings.Camera.Width,
			Height:   settings.Camera.Height,
			FPS:      settings.Camera.FPS,
			Mirror:   settings.Camera.Mirror,
		})
	}
	if a.synth == nil {
		a.synth = synth.NewLogSynth()
	}

	// Try MediaPipe first, fall back to mock detection.
	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	w, h := a.camera.Resolution()
	a.transform = engine.IdentityTransform(float64(w), float64(h))
	return a
}

// SetEnabled enables or disables note playing. Disabling mid-note lets
// sounding notes drain on the next frame.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether playing is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// ApplyLayout queues a layout for the engine at the next frame boundary.
// All sounding notes are silenced; key indices do not survive a swap.
func (a *App) ApplyLayout(l *layout.Layout) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingLayout = l
	a.hasPending = true
}

// SetEngineConfig queues new engine tuning for the next frame boundary.
func (a *App) SetEngineConfig(cfg engine.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingCfg = &cfg
}

// EngineConfig returns the most recently applied engine tuning.
func (a *App) EngineConfig() engine.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.pendingCfg != nil {
		return *a.pendingCfg
	}
	return a.lastCfg
}

// SetTransform updates the layout-to-screen transform used for incoming
// frames, e.g. after the user drags or zooms the overlay.
func (a *App) SetTransform(t engine.Transform) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transform = t
}

// Transform returns the current render transform.
func (a *App) Transform() engine.Transform {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.transform
}

// ReloadSettings applies a changed application config: engine tuning and
// motion threshold take effect at the next frame.
func (a *App) ReloadSettings(settings *config.Config) {
	a.motion.SetThreshold(settings.Camera.MotionThreshold)
	a.SetEngineConfig(settings.EngineConfig())

	a.mu.Lock()
	a.settings = settings
	a.mu.Unlock()
	log.Println("Settings reloaded")
}

// Start opens the camera and begins the play loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.settings.Camera.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Play loop started")
	return nil
}

// Stop halts the play loop, silences the synth, and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	if err := a.synth.Close(); err != nil {
		log.Printf("Error closing synth: %v", err)
	}

	log.Println("Play loop stopped")
}

// Camera returns the camera instance, for the preview stream.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// ActiveKeys returns the active key indices as of the last completed frame,
// for rendering the overlay.
func (a *App) ActiveKeys() []int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeKeys
}
