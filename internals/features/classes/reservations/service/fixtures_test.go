package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/databases/dbtest"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

var baseTime = dbtest.BaseTime

func seedUser(t *testing.T, db *gorm.DB, role constants.Role) userModel.UserModel {
	return dbtest.SeedUser(t, db, role)
}

func seedClass(t *testing.T, db *gorm.DB, maxCapacity int, scheduledAt time.Time) classModel.ClassModel {
	return dbtest.SeedClass(t, db, dbtest.ClassOpts{MaxCapacity: maxCapacity, ScheduledAt: scheduledAt})
}

func reloadClass(t *testing.T, db *gorm.DB, id uuid.UUID) classModel.ClassModel {
	return dbtest.ReloadClass(t, db, id)
}
