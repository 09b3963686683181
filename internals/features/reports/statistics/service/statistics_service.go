// file: internals/features/reports/statistics/service/statistics_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attendanceModel "yogacenter_backend/internals/features/classes/attendances/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type StudentStats struct {
	StudentID       uuid.UUID `json:"student_id"`
	ClassesAttended int64     `json:"classes_attended"`
	ClassesReserved int64     `json:"classes_reserved"`
	TotalPaid       float64   `json:"total_paid"`
	AttendanceRate  float64   `json:"attendance_rate"`
}

// TeacherStats.TotalEarnings hanya menjumlah payment berstatus paid;
// pending dan refunded tidak dihitung sebagai pendapatan.
type TeacherStats struct {
	TeacherID       uuid.UUID `json:"teacher_id"`
	TotalClasses    int64     `json:"total_classes"`
	UpcomingClasses int64     `json:"upcoming_classes"`
	TotalEarnings   float64   `json:"total_earnings"`
}

type Occupancy struct {
	Classes  int64   `json:"classes"`
	Booked   int64   `json:"booked"`
	Capacity int64   `json:"capacity"`
	Rate     float64 `json:"occupancy_rate"`
}

/* =========================================================
   STUDENT
   attended = present + late, reserved = active + completed
========================================================= */

var liveReservationStatuses = []reservationModel.ReservationStatus{
	reservationModel.ReservationStatusActive,
	reservationModel.ReservationStatusCompleted,
}

func StudentStatistics(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*StudentStats, error) {
	q := db.WithContext(ctx)
	if err := ensureUser(q, studentID, "student"); err != nil {
		return nil, err
	}

	out := StudentStats{StudentID: studentID}
	if err := q.Model(&attendanceModel.AttendanceModel{}).
		Where("attendance_student_id = ? AND attendance_status IN ?", studentID,
			[]attendanceModel.AttendanceStatus{attendanceModel.AttendanceStatusPresent, attendanceModel.AttendanceStatusLate}).
		// hanya absensi yang masih punya reservasi hidup, supaya attended <= reserved
		Where(`EXISTS (SELECT 1 FROM reservations r
			WHERE r.reservation_student_id = attendances.attendance_student_id
			AND r.reservation_class_id = attendances.attendance_class_id
			AND r.reservation_status IN ?)`, liveReservationStatuses).
		Count(&out.ClassesAttended).Error; err != nil {
		return nil, fmt.Errorf("count attended: %w", err)
	}
	if err := q.Model(&reservationModel.ReservationModel{}).
		Where("reservation_student_id = ? AND reservation_status IN ?", studentID, liveReservationStatuses).
		Count(&out.ClassesReserved).Error; err != nil {
		return nil, fmt.Errorf("count reserved: %w", err)
	}
	if err := q.Model(&paymentModel.PaymentModel{}).
		Select("COALESCE(SUM(payment_amount), 0)").
		Where("payment_student_id = ? AND payment_status = ?", studentID, paymentModel.PaymentStatusPaid).
		Scan(&out.TotalPaid).Error; err != nil {
		return nil, fmt.Errorf("sum paid: %w", err)
	}
	out.AttendanceRate = AttendanceRate(out.ClassesAttended, out.ClassesReserved)
	return &out, nil
}

/* =========================================================
   TEACHER
   earnings = Σ amount * pct / 100 atas payment paid di kelas teacher
========================================================= */

func TeacherStatistics(ctx context.Context, db *gorm.DB, teacherID uuid.UUID, now time.Time) (*TeacherStats, error) {
	q := db.WithContext(ctx)
	if err := ensureUser(q, teacherID, "teacher"); err != nil {
		return nil, err
	}

	out := TeacherStats{TeacherID: teacherID}
	if err := q.Model(&classModel.ClassModel{}).
		Where("class_teacher_id = ?", teacherID).
		Count(&out.TotalClasses).Error; err != nil {
		return nil, fmt.Errorf("count classes: %w", err)
	}
	if err := q.Model(&classModel.ClassModel{}).
		Where("class_teacher_id = ? AND class_scheduled_at > ?", teacherID, now).
		Count(&out.UpcomingClasses).Error; err != nil {
		return nil, fmt.Errorf("count upcoming: %w", err)
	}

	var rows []struct {
		Amount float64
		Pct    float64
	}
	if err := q.Table("payments AS p").
		Select("p.payment_amount AS amount, c.class_teacher_share_percentage AS pct").
		Joins("JOIN classes c ON c.class_id = p.payment_class_id").
		Where("c.class_teacher_id = ? AND p.payment_status = ?", teacherID, paymentModel.PaymentStatusPaid).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load teacher payments: %w", err)
	}
	for _, r := range rows {
		out.TotalEarnings += TeacherEarnings(r.Amount, r.Pct)
	}
	return &out, nil
}

/* =========================================================
   OCCUPANCY
========================================================= */

func ClassOccupancy(ctx context.Context, db *gorm.DB, classID uuid.UUID) (*Occupancy, error) {
	var c classModel.ClassModel
	if err := db.WithContext(ctx).First(&c, "class_id = ?", classID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("class")
		}
		return nil, fmt.Errorf("load class: %w", err)
	}
	booked, capacity := int64(c.ClassCurrentCapacity), int64(c.ClassMaxCapacity)
	return &Occupancy{Classes: 1, Booked: booked, Capacity: capacity, Rate: OccupancyRate(booked, capacity)}, nil
}

// CenterOccupancy: agregat kelas di [from, to), centerID nil = semua center.
func CenterOccupancy(ctx context.Context, db *gorm.DB, centerID *uuid.UUID, from, to time.Time) (*Occupancy, error) {
	q := db.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_scheduled_at >= ? AND class_scheduled_at < ?", from, to)
	if centerID != nil {
		q = q.Where("class_center_id = ?", *centerID)
	}
	var out Occupancy
	if err := q.Select(`COUNT(*) AS classes,
			COALESCE(SUM(class_current_capacity), 0) AS booked,
			COALESCE(SUM(class_max_capacity), 0) AS capacity`).
		Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("center occupancy: %w", err)
	}
	out.Rate = OccupancyRate(out.Booked, out.Capacity)
	return &out, nil
}

func ensureUser(q *gorm.DB, id uuid.UUID, entity string) error {
	var n int64
	if err := q.Model(&userModel.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if n == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}
