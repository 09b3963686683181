package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

// BaseTime: jam tetap supaya test tidak tergantung time.Now.
var BaseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func SeedUser(t testing.TB, db *gorm.DB, role constants.Role) userModel.UserModel {
	t.Helper()
	id := uuid.New()
	u := userModel.UserModel{
		ID:       id,
		UserName: string(role) + " " + id.String()[:8],
		Email:    id.String() + "@yoga.test",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCenter(t testing.TB, db *gorm.DB) centerModel.CenterModel {
	t.Helper()
	c := centerModel.CenterModel{CenterName: "Centro", CenterAddress: "Calle 1", CenterPhone: "555"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed center: %v", err)
	}
	return c
}

type ClassOpts struct {
	CenterID    uuid.UUID // kosong -> center baru
	TeacherID   uuid.UUID // kosong -> teacher baru
	MaxCapacity int
	ScheduledAt time.Time
	Price       float64
	SharePct    float64
}

func SeedClass(t testing.TB, db *gorm.DB, o ClassOpts) classModel.ClassModel {
	t.Helper()
	if o.CenterID == uuid.Nil {
		o.CenterID = SeedCenter(t, db).CenterID
	}
	if o.TeacherID == uuid.Nil {
		o.TeacherID = SeedUser(t, db, constants.RoleTeacher).ID
	}
	if o.MaxCapacity == 0 {
		o.MaxCapacity = 10
	}
	if o.ScheduledAt.IsZero() {
		o.ScheduledAt = BaseTime
	}
	if o.Price == 0 {
		o.Price = 100
	}
	if o.SharePct == 0 {
		o.SharePct = classModel.DefaultTeacherSharePercentage
	}

	c := classModel.ClassModel{
		ClassCenterID:               o.CenterID,
		ClassTeacherID:              o.TeacherID,
		ClassScheduledAt:            o.ScheduledAt,
		ClassMaxCapacity:            o.MaxCapacity,
		ClassPrice:                  o.Price,
		ClassTeacherSharePercentage: o.SharePct,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return c
}

func ReloadClass(t testing.TB, db *gorm.DB, id uuid.UUID) classModel.ClassModel {
	t.Helper()
	var c classModel.ClassModel
	if err := db.First(&c, "class_id = ?", id).Error; err != nil {
		t.Fatalf("reload class: %v", err)
	}
	return c
}
