package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesAll(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))

	v, err := GetCurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, AllMigrations[len(AllMigrations)-1].Version, v)
}

func TestRunIsIdempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, len(AllMigrations), n)
}

func TestVersionsAscending(t *testing.T) {
	for i := 1; i < len(AllMigrations); i++ {
		assert.Greater(t, AllMigrations[i].Version, AllMigrations[i-1].Version)
	}
}
