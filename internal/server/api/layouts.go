package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/veena/internal/layout"
	"github.com/ayusman/veena/internal/store"
)

// LayoutHandler handles HTTP requests for saved layouts.
type LayoutHandler struct {
	store      *store.Store
	controller Controller
}

// NewLayoutHandler creates a LayoutHandler. The controller may be nil, in
// which case activation only updates the database.
func NewLayoutHandler(s *store.Store, c Controller) *LayoutHandler {
	return &LayoutHandler{store: s, controller: c}
}

// ServeHTTP routes collection, item, and activate requests.
// Expected paths: /api/layouts, /api/layouts/{id}, /api/layouts/{id}/activate
func (h *LayoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/layouts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createLayoutRequest struct {
	Name string `json:"name"`
	// Keys defines the layout explicitly. When absent, a standard keyboard
	// is generated from Octaves and StartOctave.
	Keys        []layout.Key `json:"keys,omitempty"`
	Octaves     int          `json:"octaves,omitempty"`
	StartOctave int          `json:"start_octave,omitempty"`
}

type updateLayoutRequest struct {
	Name string       `json:"name"`
	Keys []layout.Key `json:"keys,omitempty"`
}

type layoutResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Active    bool         `json:"active"`
	Keys      []layout.Key `json:"keys,omitempty"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

type listLayoutsResponse struct {
	Layouts []layoutResponse `json:"layouts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a layout record to its wire form. Keys are included
// only when a layout is given.
func toResponse(rec *store.LayoutRecord, l *layout.Layout) layoutResponse {
	return layoutResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Active:    rec.Active,
		Keys:      l.Keys(),
		CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/layouts.
func (h *LayoutHandler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.Layouts().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list layouts")
		return
	}

	response := listLayoutsResponse{Layouts: make([]layoutResponse, 0, len(recs))}
	for _, rec := range recs {
		response.Layouts = append(response.Layouts, toResponse(rec, nil))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/layouts/{id}.
func (h *LayoutHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, l, err := h.store.Layouts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get layout")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec, l))
}

// create handles POST /api/layouts.
func (h *LayoutHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	var l *layout.Layout
	if len(req.Keys) > 0 {
		l = layout.New(req.Keys)
	} else {
		octaves := req.Octaves
		if octaves == 0 {
			octaves = 2
		}
		startOctave := req.StartOctave
		if startOctave == 0 {
			startOctave = 4
		}
		if octaves < 1 || octaves > 7 {
			writeError(w, http.StatusBadRequest, "Octaves out of range")
			return
		}
		l = layout.Generate(octaves, startOctave)
	}

	rec := &store.LayoutRecord{ID: uuid.New().String(), Name: req.Name}
	if err := h.store.Layouts().Create(rec, l); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create layout")
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(rec, l))
}

// update handles PUT /api/layouts/{id}: rename, replace keys, or both.
func (h *LayoutHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	rec, l, err := h.store.Layouts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get layout")
		return
	}

	var req updateLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" && req.Name != rec.Name {
		if err := h.store.Layouts().Rename(id, req.Name); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to rename layout")
			return
		}
		rec.Name = req.Name
	}

	if len(req.Keys) > 0 {
		l = layout.New(req.Keys)
		if err := h.store.Layouts().ReplaceKeys(id, l); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to replace keys")
			return
		}
		// An edit to the active layout goes live immediately.
		if rec.Active && h.controller != nil {
			h.controller.ApplyLayout(l)
		}
	}

	writeJSON(w, http.StatusOK, toResponse(rec, l))
}

// delete handles DELETE /api/layouts/{id}.
func (h *LayoutHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Layouts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete layout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/layouts/{id}/activate: marks the layout active
// and pushes it into the running engine.
func (h *LayoutHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Layouts().SetActive(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Layout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate layout")
		return
	}

	rec, l, err := h.store.Layouts().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load layout")
		return
	}

	if h.controller != nil {
		h.controller.ApplyLayout(l)
	}
	writeJSON(w, http.StatusOK, toResponse(rec, l))
}
