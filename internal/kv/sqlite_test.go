package kv

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	return NewSQLiteStore(db)
}

func TestStoreConformance(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newTestSQLiteStore(t),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("k", "v1"))
			v, ok, err := store.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v1", v)

			require.NoError(t, store.Set("k", "v2"))
			v, _, err = store.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "v2", v)

			require.NoError(t, store.Delete("k"))
			_, ok, err = store.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting an absent key is not an error
			require.NoError(t, store.Delete("k"))
		})
	}
}
