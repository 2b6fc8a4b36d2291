// Package api provides HTTP API handlers for the Veena camera piano.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/veena/internal/engine"
	"github.com/ayusman/veena/internal/layout"
)

// Controller is the running application as seen by the API: live engine
// tuning, layout switching, and the render transform. The play loop applies
// changes at frame boundaries.
type Controller interface {
	EngineConfig() engine.Config
	SetEngineConfig(engine.Config)
	ApplyLayout(l *layout.Layout)
	Transform() engine.Transform
	SetTransform(engine.Transform)
}

// engineConfigDTO is the wire form of the engine tuning values.
type engineConfigDTO struct {
	MovementThreshold     float64 `json:"movement_threshold"`
	DownwardThreshold     float64 `json:"downward_threshold"`
	RestFrames            int     `json:"rest_frames"`
	CooldownFrames        int     `json:"cooldown_frames"`
	SmoothingAlpha        float64 `json:"smoothing_alpha"`
	SmoothingWindow       int     `json:"smoothing_window"`
	ActivationThreshold   float64 `json:"activation_threshold"`
	DeactivationThreshold float64 `json:"deactivation_threshold"`
	BandPosition          float64 `json:"band_position"`
	BandDeadZone          float64 `json:"band_dead_zone"`
	MaxActiveKeys         int     `json:"max_active_keys"`
	FingerMaxAge          int     `json:"finger_max_age"`
}

func toDTO(c engine.Config) engineConfigDTO {
	return engineConfigDTO{
		MovementThreshold:     c.MovementThreshold,
		DownwardThreshold:     c.DownwardThreshold,
		RestFrames:            c.RestFrames,
		CooldownFrames:        c.CooldownFrames,
		SmoothingAlpha:        c.SmoothingAlpha,
		SmoothingWindow:       c.SmoothingWindow,
		ActivationThreshold:   c.ActivationThreshold,
		DeactivationThreshold: c.DeactivationThreshold,
		BandPosition:          c.BandPosition,
		BandDeadZone:          c.BandDeadZone,
		MaxActiveKeys:         c.MaxActiveKeys,
		FingerMaxAge:          c.FingerMaxAge,
	}
}

func (d engineConfigDTO) toConfig() engine.Config {
	return engine.Config{
		MovementThreshold:     d.MovementThreshold,
		DownwardThreshold:     d.DownwardThreshold,
		RestFrames:            d.RestFrames,
		CooldownFrames:        d.CooldownFrames,
		SmoothingAlpha:        d.SmoothingAlpha,
		SmoothingWindow:       d.SmoothingWindow,
		ActivationThreshold:   d.ActivationThreshold,
		DeactivationThreshold: d.DeactivationThreshold,
		BandPosition:          d.BandPosition,
		BandDeadZone:          d.BandDeadZone,
		MaxActiveKeys:         d.MaxActiveKeys,
		FingerMaxAge:          d.FingerMaxAge,
	}
}

// EngineHandler serves GET and PUT for the live engine tuning.
type EngineHandler struct {
	controller Controller
}

// NewEngineHandler creates an EngineHandler bound to the given controller.
func NewEngineHandler(c Controller) *EngineHandler {
	return &EngineHandler{controller: c}
}

// ServeHTTP implements the http.Handler interface.
func (h *EngineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toDTO(h.controller.EngineConfig()))
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update decodes the request over the current config, so omitted fields
// keep their values, and applies the result.
func (h *EngineHandler) update(w http.ResponseWriter, r *http.Request) {
	dto := toDTO(h.controller.EngineConfig())
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.controller.SetEngineConfig(dto.toConfig())
	// Echo back the applied config; the engine may have clamped values.
	writeJSON(w, http.StatusOK, toDTO(h.controller.EngineConfig()))
}
