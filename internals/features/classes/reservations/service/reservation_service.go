// file: internals/features/classes/reservations/service/reservation_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	attendanceModel "yogacenter_backend/internals/features/classes/attendances/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	"yogacenter_backend/internals/features/classes/reservations/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

/* =========================================================
   RESERVE (capacity ledger)
   - class dikunci FOR UPDATE
   - seat dinaikkan dengan UPDATE bersyarat (current < max)
   - reservasi dibuat di transaksi yang sama
========================================================= */

// Reserve membuat reservasi active dan menaikkan class_current_capacity satu.
// db boleh berupa transaksi yang sedang berjalan (jadi savepoint).
func Reserve(ctx context.Context, db *gorm.DB, studentID, classID uuid.UUID, now time.Time) (*model.ReservationModel, error) {
	var out *model.ReservationModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class classModel.ClassModel
		if err := dbx.ForUpdate(tx).
			First(&class, "class_id = ?", classID).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("class")
			}
			return fmt.Errorf("load class: %w", err)
		}

		if err := ensureActiveStudent(tx, studentID); err != nil {
			return err
		}

		if class.IsFull() {
			return apperr.ErrCapacityExceeded
		}

		var dup int64
		if err := tx.Model(&model.ReservationModel{}).
			Where("reservation_student_id = ? AND reservation_class_id = ? AND reservation_status = ?",
				studentID, classID, model.ReservationStatusActive).
			Count(&dup).Error; err != nil {
			return fmt.Errorf("check duplicate reservation: %w", err)
		}
		if dup > 0 {
			return apperr.ErrDuplicateActiveReservation
		}

		// guard di level SQL: pemenang pertama dapat seat terakhir
		res := tx.Model(&classModel.ClassModel{}).
			Where("class_id = ? AND class_current_capacity < class_max_capacity", classID).
			Updates(map[string]any{
				"class_current_capacity": gorm.Expr("class_current_capacity + 1"),
				"class_updated_at":       now,
			})
		if res.Error != nil {
			return fmt.Errorf("take seat: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.ErrCapacityExceeded
		}

		r := &model.ReservationModel{
			ReservationStudentID:  studentID,
			ReservationClassID:    classID,
			ReservationStatus:     model.ReservationStatusActive,
			ReservationReservedAt: now,
		}
		if err := tx.Create(r).Error; err != nil {
			if dbx.IsDuplicate(err) {
				return apperr.ErrDuplicateActiveReservation
			}
			return fmt.Errorf("create reservation: %w", err)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Reserve] student=%s class=%s reservation=%s", studentID, classID, out.ReservationID)
	return out, nil
}

func ensureActiveStudent(tx *gorm.DB, studentID uuid.UUID) error {
	var u userModel.UserModel
	if err := tx.Select("id", "role", "is_active").
		First(&u, "id = ?", studentID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return apperr.NotFound("student")
		}
		return fmt.Errorf("load student: %w", err)
	}
	if u.Role != constants.RoleStudent {
		return apperr.Validation("student_id", "user is not a student")
	}
	if !u.IsActive {
		return apperr.Validation("student_id", "student account is inactive")
	}
	return nil
}

/* =========================================================
   STATE MACHINE
   active -> cancelled (seat dilepas)
   active -> completed (seat tetap)
========================================================= */

// Cancel melepas satu seat, me-refund payment yang masih hidup dan menghapus absensi
// student di kelas itu.
func Cancel(ctx context.Context, db *gorm.DB, reservationID uuid.UUID, now time.Time) (*model.ReservationModel, error) {
	var out model.ReservationModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := lockReservation(tx, reservationID)
		if err != nil {
			return err
		}
		if r.ReservationStatus != model.ReservationStatusActive {
			return apperr.InvalidTransition("reservation", string(r.ReservationStatus), string(model.ReservationStatusCancelled))
		}

		res := tx.Model(&model.ReservationModel{}).
			Where("reservation_id = ? AND reservation_status = ?", reservationID, model.ReservationStatusActive).
			Updates(map[string]any{
				"reservation_status":       model.ReservationStatusCancelled,
				"reservation_cancelled_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("cancel reservation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidTransition("reservation", string(r.ReservationStatus), string(model.ReservationStatusCancelled))
		}

		seat := tx.Model(&classModel.ClassModel{}).
			Where("class_id = ? AND class_current_capacity > 0", r.ReservationClassID).
			Updates(map[string]any{
				"class_current_capacity": gorm.Expr("class_current_capacity - 1"),
				"class_updated_at":       now,
			})
		if seat.Error != nil {
			return fmt.Errorf("release seat: %w", seat.Error)
		}
		if seat.RowsAffected == 0 {
			log.Printf("[Cancel] ⚠️ class=%s capacity already 0, counter not decremented", r.ReservationClassID)
		}

		if err := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_reservation_id = ? AND payment_status <> ?", reservationID, paymentModel.PaymentStatusRefunded).
			Update("payment_status", paymentModel.PaymentStatusRefunded).Error; err != nil {
			return fmt.Errorf("refund payments: %w", err)
		}

		// absensi tanpa seat tidak berlaku lagi
		if err := tx.Where("attendance_student_id = ? AND attendance_class_id = ?", r.ReservationStudentID, r.ReservationClassID).
			Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
			return fmt.Errorf("drop attendance: %w", err)
		}

		return tx.First(&out, "reservation_id = ?", reservationID).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Cancel] reservation=%s class=%s", out.ReservationID, out.ReservationClassID)
	return &out, nil
}

// Complete menandai reservasi selesai setelah kelas dimulai. Seat tidak dilepas.
func Complete(ctx context.Context, db *gorm.DB, reservationID uuid.UUID, now time.Time) (*model.ReservationModel, error) {
	var out model.ReservationModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := lockReservation(tx, reservationID)
		if err != nil {
			return err
		}
		if r.ReservationStatus != model.ReservationStatusActive {
			return apperr.InvalidTransition("reservation", string(r.ReservationStatus), string(model.ReservationStatusCompleted))
		}

		var class classModel.ClassModel
		if err := tx.Select("class_id", "class_scheduled_at").
			First(&class, "class_id = ?", r.ReservationClassID).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("class")
			}
			return fmt.Errorf("load class: %w", err)
		}
		if class.ClassScheduledAt.After(now) {
			return apperr.Validation("scheduled_at", "class has not started yet")
		}

		if err := tx.Model(&model.ReservationModel{}).
			Where("reservation_id = ?", reservationID).
			Updates(map[string]any{
				"reservation_status":       model.ReservationStatusCompleted,
				"reservation_completed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("complete reservation: %w", err)
		}
		return tx.First(&out, "reservation_id = ?", reservationID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteElapsed: sweep semua reservasi active yang kelasnya sudah mulai.
func CompleteElapsed(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		started := tx.Model(&classModel.ClassModel{}).
			Select("class_id").
			Where("class_scheduled_at <= ?", now)

		res := tx.Model(&model.ReservationModel{}).
			Where("reservation_status = ? AND reservation_class_id IN (?)", model.ReservationStatusActive, started).
			Updates(map[string]any{
				"reservation_status":       model.ReservationStatusCompleted,
				"reservation_completed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("sweep reservations: %w", res.Error)
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}

func lockReservation(tx *gorm.DB, id uuid.UUID) (*model.ReservationModel, error) {
	var r model.ReservationModel
	if err := dbx.ForUpdate(tx).First(&r, "reservation_id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("reservation")
		}
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	return &r, nil
}
