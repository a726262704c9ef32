package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/modelsnapper/snapper_go_server/internal/model"
)

// SetupTestDB opens an isolated in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.BusinessProfile{},
		&model.ModelProfile{},
		&model.ConsentRequest{},
		&model.RenderJob{},
		&model.Avatar{},
		&model.PaymentRecord{},
		&model.CreditTransaction{},
		&model.Feedback{},
		&model.Lead{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
