package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/classes/reservations/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

// ReservationView: reservasi + ringkasan kelasnya (untuk list "my reservations").
type ReservationView struct {
	model.ReservationModel
	ClassScheduledAt time.Time `gorm:"column:class_scheduled_at" json:"class_scheduled_at"`
	ClassCenterID    uuid.UUID `gorm:"column:class_center_id" json:"class_center_id"`
	ClassTeacherID   uuid.UUID `gorm:"column:class_teacher_id" json:"class_teacher_id"`
	ClassPrice       float64   `gorm:"column:class_price" json:"class_price"`
}

type ListFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	CenterID  *uuid.UUID
	Status    *model.ReservationStatus
	From      *time.Time // class_scheduled_at >= From
	To        *time.Time // class_scheduled_at < To
	Offset    int
	Limit     int
}

func GetReservation(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ReservationModel, error) {
	var r model.ReservationModel
	if err := db.WithContext(ctx).First(&r, "reservation_id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("reservation")
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &r, nil
}

// FindActive: reservasi active untuk pasangan (student, class), nil kalau tidak ada.
func FindActive(ctx context.Context, db *gorm.DB, studentID, classID uuid.UUID) (*model.ReservationModel, error) {
	var rows []model.ReservationModel
	if err := db.WithContext(ctx).
		Where("reservation_student_id = ? AND reservation_class_id = ? AND reservation_status = ?",
			studentID, classID, model.ReservationStatusActive).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find active reservation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func ListReservations(ctx context.Context, db *gorm.DB, f ListFilter) ([]ReservationView, int64, error) {
	q := db.WithContext(ctx).
		Table("reservations AS r").
		Joins("JOIN classes c ON c.class_id = r.reservation_class_id")

	if f.StudentID != nil {
		q = q.Where("r.reservation_student_id = ?", *f.StudentID)
	}
	if f.ClassID != nil {
		q = q.Where("r.reservation_class_id = ?", *f.ClassID)
	}
	if f.CenterID != nil {
		q = q.Where("c.class_center_id = ?", *f.CenterID)
	}
	if f.Status != nil {
		q = q.Where("r.reservation_status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("c.class_scheduled_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("c.class_scheduled_at < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var rows []ReservationView
	if err := q.
		Select("r.*, c.class_scheduled_at, c.class_center_id, c.class_teacher_id, c.class_price").
		Order("c.class_scheduled_at DESC").
		Offset(f.Offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return rows, total, nil
}
