// ABOUTME: SQLite implementation of the local document slot
// ABOUTME: Upserts whole values by key, reports misses as store.ErrSlotEmpty
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/yongu/store"
)

// SlotStore keeps slot values in the slots table.
type SlotStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Slot = (*SlotStore)(nil)

func NewSlotStore(db *sql.DB) *SlotStore {
	return &SlotStore{db: db, now: time.Now}
}

func (s *SlotStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrSlotEmpty, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}
	return value, nil
}

func (s *SlotStore) Set(key, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, string(key), value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}
	return nil
}

func (s *SlotStore) Delete(key []byte) error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, string(key))
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

// UpdatedAt reports when key was last written. ok is false for an empty slot.
func (s *SlotStore) UpdatedAt(key []byte) (t time.Time, ok bool, err error) {
	err = s.db.QueryRow(`SELECT updated_at FROM slots WHERE key = ?`, string(key)).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
