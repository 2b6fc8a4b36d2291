// Package engine implements the gesture-to-note trigger engine: it turns the
// per-frame stream of hand landmarks into stable note-on / note-off events
// against a layout of key polygons.
//
// The engine is single-threaded and frame-driven: all state is owned by the
// Engine struct and updated in-place by one Step call per frame. All timing
// values are frame counts, so they scale with whatever rate the host runs
// the loop at.
package engine

// Config holds the engine tuning values. Every field is independently
// adjustable at runtime; SetConfig applies a new Config at the next frame
// boundary.
type Config struct {
	// MovementThreshold is the layout-space distance a fingertip must travel
	// between frames to count as moving.
	MovementThreshold float64
	// DownwardThreshold is the smaller vertical delta that counts as a
	// key press. Pressing is easier to trigger than generic motion,
	// matching how keys are struck.
	DownwardThreshold float64
	// RestFrames is how many still frames make a finger "at rest".
	RestFrames int
	// CooldownFrames suppresses re-triggering the same key after a trigger.
	// Moving to a different key always bypasses the cooldown.
	CooldownFrames int
	// SmoothingAlpha is the landmark smoothing factor in (0,1]. Lower is
	// smoother but adds latency.
	SmoothingAlpha float64
	// SmoothingWindow is the rolling history length per key for hysteresis.
	SmoothingWindow int
	// ActivationThreshold is the detection rate at or above which a key
	// becomes active.
	ActivationThreshold float64
	// DeactivationThreshold is the detection rate below which an active key
	// releases. Between the two thresholds the prior state is retained.
	DeactivationThreshold float64
	// BandPosition is the band separator's position as a fraction of the
	// layout's vertical extent. Above the band only black keys are playable,
	// below it only white keys.
	BandPosition float64
	// BandDeadZone is the half-width of the dead-band around the separator,
	// as a fraction of the layout's vertical extent. Inside it both key
	// types are accepted.
	BandDeadZone float64
	// MaxActiveKeys caps the number of simultaneously asserted keys.
	MaxActiveKeys int
	// FingerMaxAge purges finger state not updated for this many frames.
	FingerMaxAge int
}

// DefaultConfig returns the engine defaults, tuned for a 640x480 view at
// 15 FPS.
func DefaultConfig() Config {
	return Config{
		MovementThreshold:     8.0,
		DownwardThreshold:     4.0,
		RestFrames:            3,
		CooldownFrames:        6,
		SmoothingAlpha:        0.6,
		SmoothingWindow:       5,
		ActivationThreshold:   0.6,
		DeactivationThreshold: 0.3,
		BandPosition:          0.45,
		BandDeadZone:          0.05,
		MaxActiveKeys:         2,
		FingerMaxAge:          10,
	}
}

// sanitize clamps config values into usable ranges so a bad config can make
// the engine play badly but never fault.
func (c Config) sanitize() Config {
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		c.SmoothingAlpha = 1
	}
	if c.SmoothingWindow < 1 {
		c.SmoothingWindow = 1
	}
	if c.RestFrames < 1 {
		c.RestFrames = 1
	}
	if c.CooldownFrames < 0 {
		c.CooldownFrames = 0
	}
	if c.MaxActiveKeys < 1 {
		c.MaxActiveKeys = 1
	}
	if c.FingerMaxAge < 1 {
		c.FingerMaxAge = 1
	}
	if c.ActivationThreshold < c.DeactivationThreshold {
		// A crossed hysteresis band would flap; collapse it instead.
		c.DeactivationThreshold = c.ActivationThreshold
	}
	return c
}
