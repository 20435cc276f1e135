// ABOUTME: SQLite schema for the slot engine
// ABOUTME: One row per slot key, value stored as the raw document bytes
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_slots_updated_at ON slots(updated_at);
`

// InitSchema creates tables if they don't exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
