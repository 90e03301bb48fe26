// ABOUTME: Activity log of settled store operations
// ABOUTME: Recorder plugs into the store so every fulfilled or rejected call is kept
package db

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/oklog/ulid/v2"
)

// RecordActivity inserts a, assigning an id and timestamp when missing.
func RecordActivity(db *sql.DB, a *models.Activity) error {
	if a.ID == "" {
		a.ID = ulid.Make().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	var errText sql.NullString
	if a.Error != "" {
		errText = sql.NullString{String: a.Error, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO activity (id, slice, op, phase, entity_id, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Slice, a.Op, a.Phase, a.EntityID, errText, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// RecentActivity returns the newest entries first. An empty slice name
// returns every slice.
func RecentActivity(db *sql.DB, slice string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, slice, op, phase, entity_id, error, created_at
		FROM activity
	`
	args := []any{}
	if slice != "" {
		query += " WHERE slice = ?"
		args = append(args, slice)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var (
			a        models.Activity
			entityID sql.NullInt64
			errText  sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Slice, &a.Op, &a.Phase, &entityID, &errText, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if entityID.Valid {
			id := entityID.Int64
			a.EntityID = &id
		}
		a.Error = errText.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountActivityByPhase returns settled counts per phase for slice, or for
// every slice when slice is empty.
func CountActivityByPhase(db *sql.DB, slice string) (map[string]int, error) {
	query := "SELECT phase, COUNT(*) FROM activity"
	args := []any{}
	if slice != "" {
		query += " WHERE slice = ?"
		args = append(args, slice)
	}
	query += " GROUP BY phase"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var phase string
		var n int
		if err := rows.Scan(&phase, &n); err != nil {
			return nil, err
		}
		counts[phase] = n
	}
	return counts, rows.Err()
}

// Recorder writes store events to the activity table.
type Recorder struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewRecorder returns a store.Recorder backed by db.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Record implements store.Recorder. Ids are monotonic so ordering by id
// matches insertion order.
func (r *Recorder) Record(ev store.Event) error {
	r.mu.Lock()
	now := r.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), r.entropy)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to generate activity id: %w", err)
	}

	a := &models.Activity{
		ID:        id.String(),
		Slice:     ev.Slice,
		Op:        string(ev.Op),
		Phase:     string(ev.Phase),
		CreatedAt: now,
	}
	if ev.ID != 0 {
		entityID := ev.ID
		a.EntityID = &entityID
	}
	if ev.Err != nil {
		a.Error = ev.Err.Error()
	}
	return RecordActivity(r.db, a)
}
