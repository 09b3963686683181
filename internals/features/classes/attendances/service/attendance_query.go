package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/classes/attendances/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
)

// RosterEntry: satu student yang reservasi di kelas + absensinya (kalau sudah diisi).
type RosterEntry struct {
	StudentID             uuid.UUID                          `gorm:"column:student_id" json:"student_id"`
	StudentName           string                             `gorm:"column:user_name" json:"student_name"`
	StudentEmail          string                             `gorm:"column:email" json:"student_email"`
	ReservationID         uuid.UUID                          `gorm:"column:reservation_id" json:"reservation_id"`
	ReservationStatus     reservationModel.ReservationStatus `gorm:"column:reservation_status" json:"reservation_status"`
	AttendanceID          *uuid.UUID                         `gorm:"column:attendance_id" json:"attendance_id,omitempty"`
	AttendanceStatus      *model.AttendanceStatus            `gorm:"column:attendance_status" json:"attendance_status,omitempty"`
	AttendanceAttendedAt  *time.Time                         `gorm:"column:attendance_attended_at" json:"attendance_attended_at,omitempty"`
	AttendanceCheckInTime *time.Time                         `gorm:"column:attendance_check_in_time" json:"attendance_check_in_time,omitempty"`
	AttendanceNotes       *string                            `gorm:"column:attendance_notes" json:"attendance_notes,omitempty"`
}

// ClassRoster: semua reservasi active/completed di kelas, urut nama.
func ClassRoster(ctx context.Context, db *gorm.DB, classID uuid.UUID) ([]RosterEntry, error) {
	if err := ensureClass(db.WithContext(ctx), classID); err != nil {
		return nil, err
	}
	var rows []RosterEntry
	err := db.WithContext(ctx).
		Table("reservations AS r").
		Select(`r.reservation_student_id AS student_id, u.user_name, u.email,
			r.reservation_id, r.reservation_status,
			a.attendance_id, a.attendance_status, a.attendance_attended_at,
			a.attendance_check_in_time, a.attendance_notes`).
		Joins("JOIN users u ON u.id = r.reservation_student_id").
		Joins("LEFT JOIN attendances a ON a.attendance_class_id = r.reservation_class_id AND a.attendance_student_id = r.reservation_student_id").
		Where("r.reservation_class_id = ? AND r.reservation_status IN ?", classID,
			[]reservationModel.ReservationStatus{reservationModel.ReservationStatusActive, reservationModel.ReservationStatusCompleted}).
		Order("u.user_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("class roster: %w", err)
	}
	return rows, nil
}

type ListFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	CenterID  *uuid.UUID
	TeacherID *uuid.UUID
	Status    *model.AttendanceStatus
	From      *time.Time // class_scheduled_at >= From
	To        *time.Time // class_scheduled_at < To
	Offset    int
	Limit     int
}

func ListAttendances(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.AttendanceModel, int64, error) {
	q := db.WithContext(ctx).
		Model(&model.AttendanceModel{}).
		Joins("JOIN classes c ON c.class_id = attendances.attendance_class_id")

	if f.StudentID != nil {
		q = q.Where("attendances.attendance_student_id = ?", *f.StudentID)
	}
	if f.ClassID != nil {
		q = q.Where("attendances.attendance_class_id = ?", *f.ClassID)
	}
	if f.CenterID != nil {
		q = q.Where("c.class_center_id = ?", *f.CenterID)
	}
	if f.TeacherID != nil {
		q = q.Where("c.class_teacher_id = ?", *f.TeacherID)
	}
	if f.Status != nil {
		q = q.Where("attendances.attendance_status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("c.class_scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("c.class_scheduled_at < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count attendances: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	var rows []model.AttendanceModel
	if err := q.Select("attendances.*").
		Order("c.class_scheduled_at DESC").
		Offset(f.Offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list attendances: %w", err)
	}
	return rows, total, nil
}
