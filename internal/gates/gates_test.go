package gates

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newGateTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}
