package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/repos"
	"github.com/cinememory/backend/internal/types"
)

func newServiceTestDB(t *testing.T, models ...interface{}) *gorm.DB {
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

func newTestAuditGate(t *testing.T, db *gorm.DB) *gates.APIAuditGate {
	t.Helper()
	log := logger.NewNop()
	return gates.NewAPIAuditGate(repos.NewAPIAuditLogRepo(db, log), repos.NewAPIKeyRepo(db, log), log)
}

func countAuditRows(t *testing.T, db *gorm.DB, module types.APIModule) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.APIAuditLog{}).Where("module = ?", module).Count(&n).Error; err != nil {
		t.Fatalf("counting audit rows: %v", err)
	}
	return n
}
