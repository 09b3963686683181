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

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	}
	return false
}

// Attended: present & late dihitung hadir.
func (s AttendanceStatus) Attended() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate:
		return true
	case AttendanceStatusAbsent:
		return false
	}
	return false
}

func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	st := AttendanceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", s)
	}
	return st, nil
}

type AttendanceModel struct {
	AttendanceID          uuid.UUID        `gorm:"column:attendance_id;type:uuid;primaryKey" json:"attendance_id"`
	AttendanceStudentID   uuid.UUID        `gorm:"column:attendance_student_id;type:uuid;not null;uniqueIndex:idx_attendances_pair,priority:1" json:"attendance_student_id"`
	AttendanceClassID     uuid.UUID        `gorm:"column:attendance_class_id;type:uuid;not null;uniqueIndex:idx_attendances_pair,priority:2;index" json:"attendance_class_id"`
	AttendanceStatus      AttendanceStatus `gorm:"column:attendance_status;size:20;not null;index" json:"attendance_status"`
	AttendanceAttendedAt  *time.Time       `gorm:"column:attendance_attended_at;index" json:"attendance_attended_at,omitempty"`
	AttendanceCheckInTime *time.Time       `gorm:"column:attendance_check_in_time" json:"attendance_check_in_time,omitempty"`
	AttendanceNotes       *string          `gorm:"column:attendance_notes;type:text" json:"attendance_notes,omitempty"`
	AttendanceCreatedAt   time.Time        `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt   time.Time        `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`

	Student *userModel.UserModel   `gorm:"foreignKey:AttendanceStudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Class   *classModel.ClassModel `gorm:"foreignKey:AttendanceClassID;references:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
