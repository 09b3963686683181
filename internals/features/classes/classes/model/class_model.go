package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

const DefaultTeacherSharePercentage = 70.0

// ClassModel: satu sesi kelas terjadwal.
// class_current_capacity = jumlah reservasi aktif, dijaga oleh ledger reservasi.
type ClassModel struct {
	ClassID                     uuid.UUID `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassCenterID               uuid.UUID `gorm:"column:class_center_id;type:uuid;not null;index" json:"class_center_id"`
	ClassTeacherID              uuid.UUID `gorm:"column:class_teacher_id;type:uuid;not null;index" json:"class_teacher_id"`
	ClassScheduledAt            time.Time `gorm:"column:class_scheduled_at;not null;index" json:"class_scheduled_at"`
	ClassMaxCapacity            int       `gorm:"column:class_max_capacity;not null;check:chk_class_max_capacity,class_max_capacity > 0" json:"class_max_capacity"`
	ClassCurrentCapacity        int       `gorm:"column:class_current_capacity;not null;check:chk_class_current_capacity,class_current_capacity >= 0 AND class_current_capacity <= class_max_capacity" json:"class_current_capacity"`
	ClassPrice                  float64   `gorm:"column:class_price;type:numeric(12,2);not null;check:chk_class_price,class_price >= 0" json:"class_price"`
	ClassTeacherSharePercentage float64   `gorm:"column:class_teacher_share_percentage;type:numeric(5,2);not null;check:chk_class_teacher_share,class_teacher_share_percentage >= 0 AND class_teacher_share_percentage <= 100" json:"class_teacher_share_percentage"`
	ClassCreatedAt              time.Time `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt              time.Time `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`

	// relasi hanya untuk FK constraint
	Center  *centerModel.CenterModel `gorm:"foreignKey:ClassCenterID;references:CenterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Teacher *userModel.UserModel     `gorm:"foreignKey:ClassTeacherID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

func (m ClassModel) IsFull() bool {
	return m.ClassCurrentCapacity >= m.ClassMaxCapacity
}

func (m ClassModel) AvailableSpots() int {
	if n := m.ClassMaxCapacity - m.ClassCurrentCapacity; n > 0 {
		return n
	}
	return 0
}
