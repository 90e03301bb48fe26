// ABOUTME: Tests for the SQLite activity log and import links
// ABOUTME: Uses temp-dir and in-memory databases
package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/crmdesk/models"
	"github.com/harperreed/crmdesk/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "activity.db")

	db, err := OpenDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should be created")

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count))
	assert.Equal(t, 2, count)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := OpenDatabase(filepath.Join(blocker, "activity.db"))
	assert.Error(t, err)
}

func TestRecordAndRecentActivity(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	id := int64(12)
	require.NoError(t, RecordActivity(db, &models.Activity{Slice: "contacts", Op: "update", Phase: "fulfilled", EntityID: &id}))
	require.NoError(t, RecordActivity(db, &models.Activity{Slice: "users", Op: "fetch", Phase: "rejected", Error: "boom"}))
	require.NoError(t, RecordActivity(db, &models.Activity{Slice: "contacts", Op: "delete", Phase: "fulfilled", EntityID: &id}))

	all, err := RecentActivity(db, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "delete", all[0].Op, "newest first")
	assert.Equal(t, "boom", all[1].Error)
	assert.Nil(t, all[1].EntityID)
	require.NotNil(t, all[2].EntityID)
	assert.Equal(t, int64(12), *all[2].EntityID)
	assert.WithinDuration(t, time.Now(), all[0].CreatedAt, time.Minute)

	contacts, err := RecentActivity(db, "contacts", 1)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "delete", contacts[0].Op)

	counts, err := CountActivityByPhase(db, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"fulfilled": 2, "rejected": 1}, counts)
}

func TestRecorderStoresEvents(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	rec := NewRecorder(db)
	fixed := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	require.NoError(t, rec.Record(store.Event{Slice: store.SliceLeads, Op: store.OpCreate, Phase: store.PhaseFulfilled, ID: 7}))
	require.NoError(t, rec.Record(store.Event{Slice: store.SliceLeads, Op: store.OpUpdate, Phase: store.PhaseRejected, ID: 7, Err: errors.New("lead 7 not found")}))

	got, err := RecentActivity(db, store.SliceLeads, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "update", got[0].Op, "monotonic ids keep insertion order within one millisecond")
	assert.Equal(t, "lead 7 not found", got[0].Error)
	assert.Equal(t, "create", got[1].Op)
	assert.True(t, got[1].CreatedAt.Equal(fixed))
	assert.Len(t, got[1].ID, 26)
}

func TestImportLinks(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, found, err := FindImport(db, "google", "people/c1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, LinkImport(db, "google", "people/c1", 41))
	require.NoError(t, LinkImport(db, "google", "people/c1", 42))

	id, found, err := FindImport(db, "google", "people/c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(42), id)
}
