package testutils

import (
	"testing"

	"git.solsynth.dev/hypernet/chronicle/pkg/internal/database"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateTempDB opens a private in-memory database, migrates it and installs it
// as the global connection until the test finishes.
func CreateTempDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), "")
	require.NoError(t, err)

	// Every connection to :memory: is a different database
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigration(db))

	previous := database.C
	database.C = db
	t.Cleanup(func() {
		database.C = previous
		_ = conn.Close()
	})

	return db
}
