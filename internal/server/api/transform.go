package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/veena/internal/engine"
	"github.com/ayusman/veena/internal/store"
)

// transformSettingKey is the settings entry that holds the persisted render
// transform, so overlay placement survives a restart.
const transformSettingKey = "transform"

// TransformHandler serves GET and PUT for the layout render transform
// (pan, zoom, rotation, flips).
type TransformHandler struct {
	controller Controller
	store      *store.Store
}

// NewTransformHandler creates a TransformHandler. The store may be nil, in
// which case transform changes are not persisted.
func NewTransformHandler(c Controller, s *store.Store) *TransformHandler {
	return &TransformHandler{controller: c, store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *TransformHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.controller.Transform())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update decodes the request over the current transform, so omitted fields
// keep their values, applies the result, and persists it.
func (h *TransformHandler) update(w http.ResponseWriter, r *http.Request) {
	t := h.controller.Transform()
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.controller.SetTransform(t)

	if h.store != nil {
		data, err := json.Marshal(t)
		if err == nil {
			err = h.store.Settings().Set(transformSettingKey, string(data))
		}
		if err != nil {
			log.Printf("Failed to persist transform: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, h.controller.Transform())
}

// LoadTransform returns the persisted render transform, or store.ErrNotFound
// when none has been saved.
func LoadTransform(s *store.Store) (engine.Transform, error) {
	var t engine.Transform
	raw, err := s.Settings().Get(transformSettingKey)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return t, err
	}
	return t, nil
}
