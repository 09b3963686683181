package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type ListFilter struct {
	CenterID          *uuid.UUID
	TeacherID         *uuid.UUID
	From              *time.Time // class_scheduled_at >= From
	To                *time.Time // class_scheduled_at < To
	AvailableOnly     bool       // hanya yang masih ada seat
	ExcludeForStudent *uuid.UUID // buang kelas yang sudah di-reserve (active) student ini
	Offset            int
	Limit             int // 0 = tanpa limit
}

func GetClass(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ClassModel, error) {
	var c model.ClassModel
	if err := db.WithContext(ctx).First(&c, "class_id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("class")
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

func ListClasses(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.ClassModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.ClassModel{})

	if f.CenterID != nil {
		q = q.Where("class_center_id = ?", *f.CenterID)
	}
	if f.TeacherID != nil {
		q = q.Where("class_teacher_id = ?", *f.TeacherID)
	}
	if f.From != nil {
		q = q.Where("class_scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("class_scheduled_at < ?", *f.To)
	}
	if f.AvailableOnly {
		q = q.Where("class_current_capacity < class_max_capacity")
	}
	if f.ExcludeForStudent != nil {
		held := db.Model(&reservationModel.ReservationModel{}).
			Select("reservation_class_id").
			Where("reservation_student_id = ? AND reservation_status = ?",
				*f.ExcludeForStudent, reservationModel.ReservationStatusActive)
		q = q.Where("class_id NOT IN (?)", held)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	q = q.Order("class_scheduled_at ASC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []model.ClassModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	return rows, total, nil
}

// AvailableClasses: kelas pada [from, to) yang belum penuh dan belum di-reserve student.
// studentID nil = tanpa pengecualian student.
func AvailableClasses(ctx context.Context, db *gorm.DB, from, to time.Time, studentID, centerID *uuid.UUID) ([]model.ClassModel, error) {
	rows, _, err := ListClasses(ctx, db, ListFilter{
		CenterID:          centerID,
		From:              &from,
		To:                &to,
		AvailableOnly:     true,
		ExcludeForStudent: studentID,
	})
	return rows, err
}

// UpcomingClasses: kelas yang mulai di (now, now+days].
func UpcomingClasses(ctx context.Context, db *gorm.DB, now time.Time, days int, teacherID, centerID *uuid.UUID) ([]model.ClassModel, error) {
	if days <= 0 {
		days = 7
	}
	q := db.WithContext(ctx).
		Where("class_scheduled_at > ? AND class_scheduled_at <= ?", now, now.AddDate(0, 0, days))
	if teacherID != nil {
		q = q.Where("class_teacher_id = ?", *teacherID)
	}
	if centerID != nil {
		q = q.Where("class_center_id = ?", *centerID)
	}
	var rows []model.ClassModel
	if err := q.Order("class_scheduled_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("upcoming classes: %w", err)
	}
	return rows, nil
}
