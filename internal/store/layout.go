package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/veena/internal/layout"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// LayoutRecord is a saved layout's metadata row.
type LayoutRecord struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LayoutRepository provides CRUD operations for saved layouts and their
// keys.
type LayoutRepository struct {
	db *sql.DB
}

// Layouts returns the layout repository for this store.
func (s *Store) Layouts() *LayoutRepository {
	return &LayoutRepository{db: s.db}
}

// Create inserts a new layout and its keys in a single transaction.
func (r *LayoutRepository) Create(rec *LayoutRecord, l *layout.Layout) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO layouts (id, name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Active, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertKeys(tx, rec.ID, l); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID retrieves a layout and its keys by ID.
func (r *LayoutRepository) GetByID(id string) (*LayoutRecord, *layout.Layout, error) {
	rec := &LayoutRecord{}
	err := r.db.QueryRow(
		`SELECT id, name, active, created_at, updated_at FROM layouts WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	l, err := r.loadKeys(id)
	if err != nil {
		return nil, nil, err
	}
	return rec, l, nil
}

// List retrieves all layout records, newest first, without their keys.
func (r *LayoutRepository) List() ([]*LayoutRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, name, active, created_at, updated_at
		 FROM layouts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*LayoutRecord
	for rows.Next() {
		rec := &LayoutRecord{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Rename changes a layout's name.
func (r *LayoutRepository) Rename(id, name string) error {
	result, err := r.db.Exec(
		`UPDATE layouts SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// ReplaceKeys swaps a layout's key set wholesale in a single transaction.
// Key indices only mean anything within one key set, so partial updates are
// not supported.
func (r *LayoutRepository) ReplaceKeys(id string, l *layout.Layout) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE layouts SET updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM layout_keys WHERE layout_id = ?`, id); err != nil {
		return err
	}
	if err := insertKeys(tx, id, l); err != nil {
		return err
	}
	return tx.Commit()
}

// SetActive marks one layout as active and clears the flag on all others.
func (r *LayoutRepository) SetActive(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE layouts SET active = 0 WHERE active = 1`); err != nil {
		return err
	}
	result, err := tx.Exec(`UPDATE layouts SET active = 1, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return err
	}
	if err := requireAffected(result); err != nil {
		return err
	}
	return tx.Commit()
}

// Active retrieves the active layout and its keys. Returns ErrNotFound when
// no layout is active.
func (r *LayoutRepository) Active() (*LayoutRecord, *layout.Layout, error) {
	rec := &LayoutRecord{}
	err := r.db.QueryRow(
		`SELECT id, name, active, created_at, updated_at FROM layouts WHERE active = 1`,
	).Scan(&rec.ID, &rec.Name, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	l, err := r.loadKeys(rec.ID)
	if err != nil {
		return nil, nil, err
	}
	return rec, l, nil
}

// Delete removes a layout; its keys cascade.
func (r *LayoutRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *LayoutRepository) loadKeys(layoutID string) (*layout.Layout, error) {
	rows, err := r.db.Query(
		`SELECT key_index, note, key_type, vertices
		 FROM layout_keys WHERE layout_id = ? ORDER BY key_index`,
		layoutID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []layout.Key
	for rows.Next() {
		var k layout.Key
		var keyType, vertices string
		if err := rows.Scan(&k.Index, &k.Note, &keyType, &vertices); err != nil {
			return nil, err
		}
		k.Type = layout.KeyType(keyType)
		if err := json.Unmarshal([]byte(vertices), &k.Polygon); err != nil {
			return nil, fmt.Errorf("layout %s key %d: %w", layoutID, k.Index, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return layout.New(keys), nil
}

func insertKeys(tx *sql.Tx, layoutID string, l *layout.Layout) error {
	stmt, err := tx.Prepare(
		`INSERT INTO layout_keys (layout_id, key_index, note, key_type, vertices)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, k := range l.Keys() {
		vertices, err := json.Marshal(k.Polygon)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(layoutID, k.Index, k.Note, string(k.Type), string(vertices)); err != nil {
			return err
		}
	}
	return nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
