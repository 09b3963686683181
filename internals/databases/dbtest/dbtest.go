// Package dbtest membuka database sqlite in-memory yang sudah dimigrasi untuk test.
package dbtest

import (
	"testing"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	database "yogacenter_backend/internals/databases"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = db.Logger.LogMode(gormLogger.Silent)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
