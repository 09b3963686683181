package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "yogacenter_backend/internals/features/classes/classes/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusActive, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// IsTerminal: cancelled & completed tidak bisa berubah lagi.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	case ReservationStatusActive:
		return false
	}
	return false
}

func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return st, nil
}

// ReservationModel: paling banyak satu reservasi active per (student, class),
// dijaga partial unique index idx_reservations_active_pair.
type ReservationModel struct {
	ReservationID          uuid.UUID         `gorm:"column:reservation_id;type:uuid;primaryKey" json:"reservation_id"`
	ReservationStudentID   uuid.UUID         `gorm:"column:reservation_student_id;type:uuid;not null;index:idx_reservations_active_pair,unique,where:reservation_status = 'active',priority:1;index" json:"reservation_student_id"`
	ReservationClassID     uuid.UUID         `gorm:"column:reservation_class_id;type:uuid;not null;index:idx_reservations_active_pair,unique,where:reservation_status = 'active',priority:2;index" json:"reservation_class_id"`
	ReservationStatus      ReservationStatus `gorm:"column:reservation_status;size:20;not null;index" json:"reservation_status"`
	ReservationReservedAt  time.Time         `gorm:"column:reservation_reserved_at;not null;index" json:"reservation_reserved_at"`
	ReservationCancelledAt *time.Time        `gorm:"column:reservation_cancelled_at" json:"reservation_cancelled_at,omitempty"`
	ReservationCompletedAt *time.Time        `gorm:"column:reservation_completed_at" json:"reservation_completed_at,omitempty"`
	ReservationUpdatedAt   time.Time         `gorm:"column:reservation_updated_at;autoUpdateTime" json:"reservation_updated_at"`

	Student *userModel.UserModel   `gorm:"foreignKey:ReservationStudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Class   *classModel.ClassModel `gorm:"foreignKey:ReservationClassID;references:ClassID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (ReservationModel) TableName() string { return "reservations" }

func (m *ReservationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReservationID == uuid.Nil {
		m.ReservationID = uuid.New()
	}
	if m.ReservationStatus == "" {
		m.ReservationStatus = ReservationStatusActive
	}
	if m.ReservationReservedAt.IsZero() {
		m.ReservationReservedAt = time.Now().UTC()
	}
	return nil
}
