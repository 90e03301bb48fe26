// ABOUTME: Database schema for the local activity log and import links
// ABOUTME: Tables are created idempotently on open
package db

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
	id TEXT PRIMARY KEY,
	slice TEXT NOT NULL,
	op TEXT NOT NULL,
	phase TEXT NOT NULL,
	entity_id INTEGER,
	error TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_slice ON activity(slice);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity(created_at);

CREATE TABLE IF NOT EXISTS import_links (
	source TEXT NOT NULL,
	external_id TEXT NOT NULL,
	contact_id INTEGER NOT NULL,
	imported_at DATETIME NOT NULL,
	PRIMARY KEY (source, external_id)
);
`

// InitSchema creates every table and index.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
