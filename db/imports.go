// ABOUTME: Links between external records and backend contact ids
// ABOUTME: Keeps repeated imports from creating duplicate contacts
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LinkImport remembers that externalID from source became contactID.
func LinkImport(db *sql.DB, source, externalID string, contactID int64) error {
	_, err := db.Exec(`
		INSERT INTO import_links (source, external_id, contact_id, imported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source, external_id) DO UPDATE SET
			contact_id = excluded.contact_id,
			imported_at = excluded.imported_at
	`, source, externalID, contactID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to link import: %w", err)
	}
	return nil
}

// FindImport returns the contact id previously linked to externalID.
func FindImport(db *sql.DB, source, externalID string) (int64, bool, error) {
	var contactID int64
	err := db.QueryRow(
		"SELECT contact_id FROM import_links WHERE source = ? AND external_id = ?",
		source, externalID,
	).Scan(&contactID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find import: %w", err)
	}
	return contactID, true, nil
}
