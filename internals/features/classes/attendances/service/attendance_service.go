// file: internals/features/classes/attendances/service/attendance_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yogacenter_backend/internals/features/classes/attendances/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type MarkInput struct {
	StudentID   uuid.UUID
	Status      model.AttendanceStatus
	CheckInTime *time.Time // kosong -> now (hanya present/late)
	Notes       *string
}

/* =========================================================
   MARK (upsert per pasangan student+class)
   present/late -> attended_at di-set
   absent       -> attended_at & check_in_time dikosongkan
========================================================= */

func MarkAttendance(ctx context.Context, db *gorm.DB, classID uuid.UUID, in MarkInput, now time.Time) (*model.AttendanceModel, error) {
	var out *model.AttendanceModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureClass(tx, classID); err != nil {
			return err
		}
		a, err := markTx(tx, classID, in, now)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkMark menyimpan absensi satu kelas sekaligus; gagal satu = rollback semua.
func BulkMark(ctx context.Context, db *gorm.DB, classID uuid.UUID, entries []MarkInput, now time.Time) ([]model.AttendanceModel, error) {
	if len(entries) == 0 {
		return nil, apperr.Validation("entries", "at least one attendance entry is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.StudentID]; dup {
			return nil, apperr.Validation("entries", fmt.Sprintf("student %s listed twice", e.StudentID))
		}
		seen[e.StudentID] = struct{}{}
	}

	out := make([]model.AttendanceModel, 0, len(entries))
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureClass(tx, classID); err != nil {
			return err
		}
		for _, e := range entries {
			a, err := markTx(tx, classID, e, now)
			if err != nil {
				return err
			}
			out = append(out, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Attendance] bulk saved class=%s rows=%d", classID, len(out))
	return out, nil
}

func markTx(tx *gorm.DB, classID uuid.UUID, in MarkInput, now time.Time) (*model.AttendanceModel, error) {
	if !in.Status.Valid() {
		return nil, apperr.Validation("attendance_status", fmt.Sprintf("unknown attendance status %q", in.Status))
	}

	// hanya student yang punya reservasi (active/completed) di kelas ini
	var n int64
	if err := tx.Model(&reservationModel.ReservationModel{}).
		Where("reservation_student_id = ? AND reservation_class_id = ? AND reservation_status IN ?",
			in.StudentID, classID,
			[]reservationModel.ReservationStatus{reservationModel.ReservationStatusActive, reservationModel.ReservationStatusCompleted}).
		Count(&n).Error; err != nil {
		return nil, fmt.Errorf("check reservation: %w", err)
	}
	if n == 0 {
		return nil, apperr.Validation("student_id", "student has no reservation for this class")
	}

	row := model.AttendanceModel{
		AttendanceStudentID: in.StudentID,
		AttendanceClassID:   classID,
		AttendanceStatus:    in.Status,
		AttendanceNotes:     trimNotes(in.Notes),
	}
	if in.Status.Attended() {
		checkIn := now
		if in.CheckInTime != nil && !in.CheckInTime.IsZero() {
			checkIn = in.CheckInTime.UTC()
		}
		row.AttendanceAttendedAt = &now
		row.AttendanceCheckInTime = &checkIn
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attendance_student_id"}, {Name: "attendance_class_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_status",
			"attendance_attended_at",
			"attendance_check_in_time",
			"attendance_notes",
			"attendance_updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}

	// id hasil insert bisa beda dengan row lama saat conflict, baca ulang
	var saved model.AttendanceModel
	if err := tx.First(&saved, "attendance_student_id = ? AND attendance_class_id = ?", in.StudentID, classID).Error; err != nil {
		return nil, fmt.Errorf("reload attendance: %w", err)
	}
	return &saved, nil
}

func ensureClass(tx *gorm.DB, classID uuid.UUID) error {
	var c classModel.ClassModel
	if err := tx.Select("class_id").First(&c, "class_id = ?", classID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return apperr.NotFound("class")
		}
		return fmt.Errorf("load class: %w", err)
	}
	return nil
}

func trimNotes(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
