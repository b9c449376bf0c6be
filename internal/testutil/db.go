// Package testutil provides shared test fixtures.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mood-booster/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// It automatically closes the handle when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Shared cache keeps every pooled connection on the same in-memory
	// database; the random name isolates tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}
