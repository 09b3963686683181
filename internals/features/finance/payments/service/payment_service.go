// file: internals/features/finance/payments/service/payment_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	reservationService "yogacenter_backend/internals/features/classes/reservations/service"
	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type CreatePaymentInput struct {
	StudentID     uuid.UUID
	ClassID       uuid.UUID
	ReservationID *uuid.UUID           // kosong -> reservasi active student di kelas ini
	Amount        *float64             // kosong -> harga kelas
	Method        model.PaymentMethod  // kosong -> cash
	Status        *model.PaymentStatus // kosong -> default per method
	PaidAt        time.Time
}

/* =========================================================
   CREATE
========================================================= */

// CreatePayment mencatat pembayaran untuk reservasi active milik student.
// Satu reservasi paling banyak punya satu payment yang belum refunded.
func CreatePayment(ctx context.Context, db *gorm.DB, in CreatePaymentInput) (*model.PaymentModel, error) {
	method := in.Method
	if method == "" {
		method = model.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, apperr.Validation("payment_method", fmt.Sprintf("unknown payment method %q", in.Method))
	}
	status := method.DefaultStatus()
	if in.Status != nil {
		if !in.Status.Valid() || *in.Status == model.PaymentStatusRefunded {
			return nil, apperr.Validation("payment_status", "new payments must be pending or paid")
		}
		status = *in.Status
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, apperr.Validation("payment_amount", "amount must be >= 0")
	}

	var out *model.PaymentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class classModel.ClassModel
		if err := tx.First(&class, "class_id = ?", in.ClassID).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("class")
			}
			return fmt.Errorf("load class: %w", err)
		}

		r, err := resolveReservation(ctx, tx, in)
		if err != nil {
			return err
		}

		var live int64
		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_reservation_id = ? AND payment_status <> ?", r.ReservationID, model.PaymentStatusRefunded).
			Count(&live).Error; err != nil {
			return fmt.Errorf("check live payment: %w", err)
		}
		if live > 0 {
			return apperr.Validation("reservation_id", "reservation already has a payment")
		}

		amount := class.ClassPrice
		if in.Amount != nil {
			amount = *in.Amount
		}
		paidAt := in.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now().UTC()
		}

		p := &model.PaymentModel{
			PaymentStudentID:     in.StudentID,
			PaymentClassID:       in.ClassID,
			PaymentReservationID: &r.ReservationID,
			PaymentAmount:        amount,
			PaymentPaidAt:        paidAt,
			PaymentMethod:        method,
			PaymentStatus:        status,
		}
		if err := tx.Create(p).Error; err != nil {
			if dbx.IsDuplicate(err) {
				return apperr.Validation("reservation_id", "reservation already has a payment")
			}
			return fmt.Errorf("create payment: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Payment] created id=%s student=%s class=%s amount=%.2f method=%s status=%s",
		out.PaymentID, out.PaymentStudentID, out.PaymentClassID, out.PaymentAmount, out.PaymentMethod, out.PaymentStatus)
	return out, nil
}

func resolveReservation(ctx context.Context, tx *gorm.DB, in CreatePaymentInput) (*reservationModel.ReservationModel, error) {
	var r reservationModel.ReservationModel
	if in.ReservationID != nil {
		if err := dbx.ForUpdate(tx).First(&r, "reservation_id = ?", *in.ReservationID).Error; err != nil {
			if dbx.IsNotFound(err) {
				return nil, apperr.NotFound("reservation")
			}
			return nil, fmt.Errorf("load reservation: %w", err)
		}
	} else {
		found, err := reservationService.FindActive(ctx, tx, in.StudentID, in.ClassID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apperr.Validation("reservation_id", "student has no active reservation for this class")
		}
		r = *found
	}

	if r.ReservationStudentID != in.StudentID || r.ReservationClassID != in.ClassID {
		return nil, apperr.Validation("reservation_id", "reservation belongs to another student or class")
	}
	if r.ReservationStatus != reservationModel.ReservationStatusActive {
		return nil, apperr.Validation("reservation_id", "reservation is not active")
	}
	return &r, nil
}

/* =========================================================
   RESERVE + PAY (satu transaksi)
========================================================= */

type ReserveAndPayResult struct {
	Reservation *reservationModel.ReservationModel `json:"reservation"`
	Payment     *model.PaymentModel                `json:"payment"`
}

// ReserveAndPay: kalau payment gagal, seat yang sudah diambil ikut di-rollback.
func ReserveAndPay(ctx context.Context, db *gorm.DB, studentID, classID uuid.UUID, method model.PaymentMethod, now time.Time) (*ReserveAndPayResult, error) {
	var out ReserveAndPayResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := reservationService.Reserve(ctx, tx, studentID, classID, now)
		if err != nil {
			return err
		}
		p, err := CreatePayment(ctx, tx, CreatePaymentInput{
			StudentID:     studentID,
			ClassID:       classID,
			ReservationID: &r.ReservationID,
			Method:        method,
			PaidAt:        now,
		})
		if err != nil {
			return err
		}
		out.Reservation, out.Payment = r, p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   STATUS
========================================================= */

// UpdatePaymentStatus: pending -> paid|refunded, paid -> refunded.
// Status yang sama dianggap no-op (callback gateway bisa datang berulang).
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, paymentID uuid.UUID, next model.PaymentStatus, now time.Time) (*model.PaymentModel, error) {
	if !next.Valid() {
		return nil, apperr.Validation("payment_status", fmt.Sprintf("unknown payment status %q", next))
	}

	var out model.PaymentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dbx.ForUpdate(tx).First(&out, "payment_id = ?", paymentID).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("payment")
			}
			return fmt.Errorf("load payment: %w", err)
		}
		if out.PaymentStatus == next {
			return nil
		}
		if !out.PaymentStatus.CanTransitionTo(next) {
			return apperr.InvalidTransition("payment", string(out.PaymentStatus), string(next))
		}

		patch := map[string]any{"payment_status": next}
		if next == model.PaymentStatusPaid {
			patch["payment_paid_at"] = now
		}
		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_id = ?", paymentID).
			Updates(patch).Error; err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		return tx.First(&out, "payment_id = ?", paymentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   READ
========================================================= */

func GetPayment(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.PaymentModel, error) {
	var p model.PaymentModel
	if err := db.WithContext(ctx).First(&p, "payment_id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("payment")
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

type ListFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	TeacherID *uuid.UUID
	CenterID  *uuid.UUID
	Status    *model.PaymentStatus
	Method    *model.PaymentMethod
	From      *time.Time // payment_paid_at >= From
	To        *time.Time // payment_paid_at < To
	Offset    int
	Limit     int
}

func ListPayments(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.PaymentModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.PaymentModel{})

	if f.TeacherID != nil || f.CenterID != nil {
		q = q.Joins("JOIN classes ON classes.class_id = payments.payment_class_id")
		if f.TeacherID != nil {
			q = q.Where("classes.class_teacher_id = ?", *f.TeacherID)
		}
		if f.CenterID != nil {
			q = q.Where("classes.class_center_id = ?", *f.CenterID)
		}
	}
	if f.StudentID != nil {
		q = q.Where("payments.payment_student_id = ?", *f.StudentID)
	}
	if f.ClassID != nil {
		q = q.Where("payments.payment_class_id = ?", *f.ClassID)
	}
	if f.Status != nil {
		q = q.Where("payments.payment_status = ?", *f.Status)
	}
	if f.Method != nil {
		q = q.Where("payments.payment_method = ?", *f.Method)
	}
	if f.From != nil {
		q = q.Where("payments.payment_paid_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payments.payment_paid_at < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var rows []model.PaymentModel
	if err := q.
		Select("payments.*").
		Order("payments.payment_paid_at DESC").
		Offset(f.Offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return rows, total, nil
}
