package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meal-planner.db")

	db, err := NewDB(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"kv_entries", "execution_metrics"} {
		var name string
		err := db.SQL.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meal-planner.db")

	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
