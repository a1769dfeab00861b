// Package testdb hands each test its own migrated in-memory SQLite database.
package testdb

import (
	"fmt"
	"io"
	"regexp"
	"testing"

	"gorm.io/gorm"

	_ "github.com/pantrypal/pantrypal/database/migrations"
	"github.com/pantrypal/pantrypal/pkg/database"
	"github.com/pantrypal/pantrypal/pkg/migration"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// New opens a fresh database named after the test and runs every migration.
// It is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testdb: open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := migration.New(db).WithOutput(io.Discard).Run(); err != nil {
		t.Fatalf("testdb: migrate: %v", err)
	}
	return db
}
