package iocache

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/huangsam/cigate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateHistorySQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "Successfully migrated from version 0 to version 2")
	assert.True(t, tableExists(t, dbPath, runsTable))

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, 1))
	assert.Contains(t, out.String(), "to version 1")
	assert.True(t, tableExists(t, dbPath, runsTable))

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "rolled back")
	assert.False(t, tableExists(t, dbPath, runsTable))
}

func TestMigrateHistoryOverExistingStore(t *testing.T) {
	store, dbPath := newTestStore(t)
	require.NoError(t, store.Close())

	var out bytes.Buffer
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.True(t, tableExists(t, dbPath, runsTable))
}

func TestMigrateHistoryNoneBackend(t *testing.T) {
	err := MigrateHistory(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.Error(t, err)
}
