package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "yogacenter_backend/internals/features/classes/classes/model"
	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type EarningsSplit struct {
	TeacherEarnings float64 `json:"teacher_earnings"`
	CenterEarnings  float64 `json:"center_earnings"`
}

// CalculateSplit: teacher = amount * pct / 100, center = sisanya.
func CalculateSplit(amount, teacherSharePercentage float64) EarningsSplit {
	teacher := amount * teacherSharePercentage / 100
	return EarningsSplit{
		TeacherEarnings: teacher,
		CenterEarnings:  amount - teacher,
	}
}

// Split menghitung bagi hasil satu payment dari share kelasnya.
// Payment/class tidak ada -> split nol DAN error NotFound, caller boleh pakai salah satunya.
func Split(ctx context.Context, db *gorm.DB, paymentID uuid.UUID) (EarningsSplit, error) {
	var p model.PaymentModel
	if err := db.WithContext(ctx).
		Select("payment_id", "payment_class_id", "payment_amount").
		First(&p, "payment_id = ?", paymentID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return EarningsSplit{}, apperr.NotFound("payment")
		}
		return EarningsSplit{}, fmt.Errorf("load payment: %w", err)
	}

	var class classModel.ClassModel
	if err := db.WithContext(ctx).
		Select("class_id", "class_teacher_share_percentage").
		First(&class, "class_id = ?", p.PaymentClassID).Error; err != nil {
		if dbx.IsNotFound(err) {
			return EarningsSplit{}, apperr.NotFound("class")
		}
		return EarningsSplit{}, fmt.Errorf("load class: %w", err)
	}

	return CalculateSplit(p.PaymentAmount, class.ClassTeacherSharePercentage), nil
}
