package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	require.NotNil(t, db)
	defer teardown()

	for _, table := range []string{"players", "users", "sessions", "matches", "bets"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_MigrationsAreIdempotent(t *testing.T) {
	dbPath := t.TempDir() + "/league.db"

	db, teardown, err := InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	teardown()
	_ = db

	db, teardown, err = InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='bets'").Scan(&name)
	require.NoError(t, err)
}
