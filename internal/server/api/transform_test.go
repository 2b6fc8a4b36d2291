package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ayusman/veena/internal/engine"
	"github.com/ayusman/veena/internal/store"
)

func TestTransformHandler_Get(t *testing.T) {
	ctrl := newMockController()
	h := NewTransformHandler(ctrl, nil)

	w := doJSON(t, h, http.MethodGet, "/api/engine/transform", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var tr engine.Transform
	if err := json.Unmarshal(w.Body.Bytes(), &tr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tr.Scale != 1 || tr.ViewW != 640 || tr.ViewH != 480 {
		t.Errorf("transform = %+v, want identity at 640x480", tr)
	}
}

func TestTransformHandler_PartialPut(t *testing.T) {
	ctrl := newMockController()
	h := NewTransformHandler(ctrl, nil)

	w := doJSON(t, h, http.MethodPut, "/api/engine/transform",
		map[string]interface{}{"scale": 1.5, "offset_x": 20, "flip_x": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	got := ctrl.Transform()
	if got.Scale != 1.5 || got.OffsetX != 20 || !got.FlipX {
		t.Errorf("transform = %+v, want scale 1.5, offset_x 20, flip_x", got)
	}
	// Omitted fields keep their current values.
	if got.ViewW != 640 || got.ViewH != 480 {
		t.Errorf("transform = %+v, want view size unchanged", got)
	}
}

func TestTransformHandler_PersistsAndRestores(t *testing.T) {
	ctrl := newMockController()
	s := testStore(t)
	h := NewTransformHandler(ctrl, s)

	if _, err := LoadTransform(s); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadTransform on empty store: err = %v, want ErrNotFound", err)
	}

	w := doJSON(t, h, http.MethodPut, "/api/engine/transform",
		map[string]interface{}{"rotation": 0.25, "offset_y": -12})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	tr, err := LoadTransform(s)
	if err != nil {
		t.Fatalf("LoadTransform() error = %v", err)
	}
	if tr.Rotation != 0.25 || tr.OffsetY != -12 || tr.ViewW != 640 {
		t.Errorf("persisted transform = %+v, want rotation 0.25, offset_y -12", tr)
	}
}

func TestTransformHandler_BadJSON(t *testing.T) {
	ctrl := newMockController()
	h := NewTransformHandler(ctrl, nil)

	w := doJSON(t, h, http.MethodPut, "/api/engine/transform", "not an object")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/api/engine/transform", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", w.Code)
	}
}
