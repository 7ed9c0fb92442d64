package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func mustSqlite(t *testing.T) gorm.Dialector {
	t.Helper()
	return sqlite.Open(":memory:?_pragma=foreign_keys(1)")
}
