// Package config handles configuration loading, validation, and hot-reload
// for the Veena camera piano.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/veena/internal/engine"
)

// Config holds the complete application configuration.
type Config struct {
	Camera CameraConfig `toml:"camera" json:"camera"`
	Server ServerConfig `toml:"server" json:"server"`
	Synth  SynthConfig  `toml:"synth" json:"synth"`
	Layout LayoutConfig `toml:"layout" json:"layout"`
	Engine EngineConfig `toml:"engine" json:"engine"`
	Store  StoreConfig  `toml:"store" json:"store"`
}

// CameraConfig holds capture settings.
type CameraConfig struct {
	DeviceID int  `toml:"device_id" json:"device_id"`
	Width    int  `toml:"width" json:"width"`
	Height   int  `toml:"height" json:"height"`
	Mirror   bool `toml:"mirror" json:"mirror"`

	// FPS is the capture rate while hands are moving; IdleFPS applies after
	// IdleAfterMs without motion.
	FPS             int     `toml:"fps" json:"fps"`
	IdleFPS         int     `toml:"idle_fps" json:"idle_fps"`
	IdleAfterMs     int     `toml:"idle_after_ms" json:"idle_after_ms"`
	MotionThreshold float64 `toml:"motion_threshold" json:"motion_threshold"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
}

// SynthConfig selects the audio backend.
type SynthConfig struct {
	// Backend is "process" for the Python audio helper or "log" for a
	// silent logging sink.
	Backend string `toml:"backend" json:"backend"`
}

// LayoutConfig describes the generated keyboard used when no saved layout is
// active.
type LayoutConfig struct {
	Octaves     int `toml:"octaves" json:"octaves"`
	StartOctave int `toml:"start_octave" json:"start_octave"`
}

// EngineConfig mirrors the trigger engine tuning values.
type EngineConfig struct {
	MovementThreshold     float64 `toml:"movement_threshold" json:"movement_threshold"`
	DownwardThreshold     float64 `toml:"downward_threshold" json:"downward_threshold"`
	RestFrames            int     `toml:"rest_frames" json:"rest_frames"`
	CooldownFrames        int     `toml:"cooldown_frames" json:"cooldown_frames"`
	SmoothingAlpha        float64 `toml:"smoothing_alpha" json:"smoothing_alpha"`
	SmoothingWindow       int     `toml:"smoothing_window" json:"smoothing_window"`
	ActivationThreshold   float64 `toml:"activation_threshold" json:"activation_threshold"`
	DeactivationThreshold float64 `toml:"deactivation_threshold" json:"deactivation_threshold"`
	BandPosition          float64 `toml:"band_position" json:"band_position"`
	BandDeadZone          float64 `toml:"band_dead_zone" json:"band_dead_zone"`
	MaxActiveKeys         int     `toml:"max_active_keys" json:"max_active_keys"`
	FingerMaxAge          int     `toml:"finger_max_age" json:"finger_max_age"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `toml:"path" json:"path"`
}

// Default returns the configuration defaults.
func Default() *Config {
	e := engine.DefaultConfig()
	return &Config{
		Camera: CameraConfig{
			DeviceID:        0,
			Width:           640,
			Height:          480,
			Mirror:          true,
			FPS:             15,
			IdleFPS:         5,
			IdleAfterMs:     2000,
			MotionThreshold: 1.0,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8420"},
		Synth:  SynthConfig{Backend: "process"},
		Layout: LayoutConfig{Octaves: 2, StartOctave: 4},
		Engine: EngineConfig{
			MovementThreshold:     e.MovementThreshold,
			DownwardThreshold:     e.DownwardThreshold,
			RestFrames:            e.RestFrames,
			CooldownFrames:        e.CooldownFrames,
			SmoothingAlpha:        e.SmoothingAlpha,
			SmoothingWindow:       e.SmoothingWindow,
			ActivationThreshold:   e.ActivationThreshold,
			DeactivationThreshold: e.DeactivationThreshold,
			BandPosition:          e.BandPosition,
			BandDeadZone:          e.BandDeadZone,
			MaxActiveKeys:         e.MaxActiveKeys,
			FingerMaxAge:          e.FingerMaxAge,
		},
		Store: StoreConfig{Path: filepath.Join(DataDir(), "veena.db")},
	}
}

// Validate checks the configuration for values the application cannot run
// with. Engine tuning is not validated here; the engine clamps its own
// ranges.
func (c *Config) Validate() error {
	if c.Camera.FPS <= 0 || c.Camera.IdleFPS <= 0 {
		return fmt.Errorf("camera fps and idle_fps must be positive")
	}
	if c.Camera.IdleFPS > c.Camera.FPS {
		return fmt.Errorf("camera idle_fps %d exceeds fps %d", c.Camera.IdleFPS, c.Camera.FPS)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera resolution %dx%d invalid", c.Camera.Width, c.Camera.Height)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	switch c.Synth.Backend {
	case "process", "log":
	default:
		return fmt.Errorf("unknown synth backend %q", c.Synth.Backend)
	}
	if c.Layout.Octaves < 1 || c.Layout.Octaves > 7 {
		return fmt.Errorf("layout octaves %d out of range 1..7", c.Layout.Octaves)
	}
	if c.Layout.StartOctave < 0 || c.Layout.StartOctave > 8 {
		return fmt.Errorf("layout start_octave %d out of range 0..8", c.Layout.StartOctave)
	}
	return nil
}

// EngineConfig converts the tuning section to the engine's Config type.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		MovementThreshold:     c.Engine.MovementThreshold,
		DownwardThreshold:     c.Engine.DownwardThreshold,
		RestFrames:            c.Engine.RestFrames,
		CooldownFrames:        c.Engine.CooldownFrames,
		SmoothingAlpha:        c.Engine.SmoothingAlpha,
		SmoothingWindow:       c.Engine.SmoothingWindow,
		ActivationThreshold:   c.Engine.ActivationThreshold,
		DeactivationThreshold: c.Engine.DeactivationThreshold,
		BandPosition:          c.Engine.BandPosition,
		BandDeadZone:          c.Engine.BandDeadZone,
		MaxActiveKeys:         c.Engine.MaxActiveKeys,
		FingerMaxAge:          c.Engine.FingerMaxAge,
	}
}

// DataDir returns the directory holding the database, config file, and
// helper scripts.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".veena"
	}
	return filepath.Join(home, ".veena")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.toml")
}
