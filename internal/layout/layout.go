package layout

// KeyType distinguishes the two key zones of the keyboard.
type KeyType string

const (
	// KeyWhite is a natural key in the lower zone of the layout.
	KeyWhite KeyType = "white"
	// KeyBlack is an accidental key in the upper zone of the layout.
	KeyBlack KeyType = "black"
)

// Key is one playable region of the layout. Keys are created in bulk when a
// layout is loaded and are never mutated afterwards; a layout change replaces
// the whole set.
type Key struct {
	// Note is the note identifier emitted when the key is struck, e.g. "C4".
	// Identifiers are not required to be unique across keys.
	Note string `json:"note"`
	// Polygon is the key's region in layout space.
	Polygon Polygon `json:"polygon"`
	// Type selects which side of the band separator accepts this key.
	Type KeyType `json:"type"`
	// Index is unique and stable for the lifetime of one layout.
	Index int `json:"index"`
}

// Valid reports whether the key participates in hit-testing. Keys with a
// degenerate polygon are skipped, never fatal.
func (k *Key) Valid() bool {
	return len(k.Polygon) >= 3
}

// Layout is an immutable set of keys plus the bounding box of all their
// polygons. Build it with New so the bounds are computed once.
type Layout struct {
	keys   []Key
	bounds Rect
}

// New builds a Layout from the given keys and computes its bounding box over
// all polygon vertices. Degenerate keys are kept in the set (their indices
// stay stable) but contribute nothing to the bounds.
func New(keys []Key) *Layout {
	l := &Layout{keys: keys}

	first := true
	for i := range keys {
		if !keys[i].Valid() {
			continue
		}
		b := keys[i].Polygon.Bounds()
		if first {
			l.bounds = b
			first = false
			continue
		}
		if b.MinX < l.bounds.MinX {
			l.bounds.MinX = b.MinX
		}
		if b.MinY < l.bounds.MinY {
			l.bounds.MinY = b.MinY
		}
		if b.MaxX > l.bounds.MaxX {
			l.bounds.MaxX = b.MaxX
		}
		if b.MaxY > l.bounds.MaxY {
			l.bounds.MaxY = b.MaxY
		}
	}
	return l
}

// Keys returns the key set. Callers must treat it as read-only.
func (l *Layout) Keys() []Key {
	if l == nil {
		return nil
	}
	return l.keys
}

// Key returns the key with the given index, or nil if no such key exists.
func (l *Layout) Key(index int) *Key {
	if l == nil {
		return nil
	}
	for i := range l.keys {
		if l.keys[i].Index == index {
			return &l.keys[i]
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all valid key polygons.
func (l *Layout) Bounds() Rect {
	if l == nil {
		return Rect{}
	}
	return l.bounds
}

// Empty reports whether the layout has no valid keys. An empty layout is an
// idle state for the engine, not an error.
func (l *Layout) Empty() bool {
	if l == nil {
		return true
	}
	for i := range l.keys {
		if l.keys[i].Valid() {
			return false
		}
	}
	return true
}
