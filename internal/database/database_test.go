package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_SQLiteSchemaIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	// 2回目の適用もエラーにならない
	require.NoError(t, EnsureSchema(db))

	_, err = db.Exec("INSERT INTO items (id, owner_id, task, checked, seq) VALUES (?, ?, ?, ?, ?)", "a", "u", "t", false, 1)
	require.NoError(t, err)
}

func TestIsDuplicateKey_SQLite(t *testing.T) {
	db, err := InitDB("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO users (id, email) VALUES (?, ?)", "1", "a@example.com")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO users (id, email) VALUES (?, ?)", "2", "a@example.com")
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	assert.False(t, IsDuplicateKey(assert.AnError))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("nope", "")
	require.Error(t, err)
}
