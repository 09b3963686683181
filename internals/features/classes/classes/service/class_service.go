// file: internals/features/classes/classes/service/class_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	"yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type CreateClassInput struct {
	CenterID               uuid.UUID
	TeacherID              uuid.UUID
	ScheduledAt            time.Time
	MaxCapacity            int
	Price                  *float64 // nil -> 0
	TeacherSharePercentage *float64 // nil -> 70
}

// UpdateClassInput: field nil = tidak diubah.
type UpdateClassInput struct {
	CenterID               *uuid.UUID
	TeacherID              *uuid.UUID
	ScheduledAt            *time.Time
	MaxCapacity            *int
	Price                  *float64
	TeacherSharePercentage *float64
}

/* =========================================================
   CREATE
========================================================= */

func CreateClass(ctx context.Context, db *gorm.DB, in CreateClassInput) (*model.ClassModel, error) {
	if in.ScheduledAt.IsZero() {
		return nil, apperr.Validation("scheduled_at", "scheduled_at is required")
	}
	if err := validateCapacity(in.MaxCapacity); err != nil {
		return nil, err
	}
	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	share := model.DefaultTeacherSharePercentage
	if in.TeacherSharePercentage != nil {
		share = *in.TeacherSharePercentage
	}
	if err := validateShare(share); err != nil {
		return nil, err
	}

	c := &model.ClassModel{
		ClassCenterID:               in.CenterID,
		ClassTeacherID:              in.TeacherID,
		ClassScheduledAt:            in.ScheduledAt.UTC(),
		ClassMaxCapacity:            in.MaxCapacity,
		ClassCurrentCapacity:        0,
		ClassPrice:                  price,
		ClassTeacherSharePercentage: share,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCenter(tx, in.CenterID); err != nil {
			return err
		}
		if err := ensureTeacher(tx, in.TeacherID); err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create class: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Class] created class=%s center=%s teacher=%s at=%s",
		c.ClassID, c.ClassCenterID, c.ClassTeacherID, c.ClassScheduledAt.Format(time.RFC3339))
	return c, nil
}

/* =========================================================
   UPDATE
   max_capacity tidak boleh di bawah jumlah seat yang sudah terpakai
========================================================= */

func UpdateClass(ctx context.Context, db *gorm.DB, id uuid.UUID, in UpdateClassInput) (*model.ClassModel, error) {
	var out model.ClassModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dbx.ForUpdate(tx).First(&out, "class_id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("class")
			}
			return fmt.Errorf("load class: %w", err)
		}

		updates := map[string]any{}
		if in.CenterID != nil {
			if err := ensureCenter(tx, *in.CenterID); err != nil {
				return err
			}
			updates["class_center_id"] = *in.CenterID
		}
		if in.TeacherID != nil {
			if err := ensureTeacher(tx, *in.TeacherID); err != nil {
				return err
			}
			updates["class_teacher_id"] = *in.TeacherID
		}
		if in.ScheduledAt != nil {
			if in.ScheduledAt.IsZero() {
				return apperr.Validation("scheduled_at", "scheduled_at is required")
			}
			updates["class_scheduled_at"] = in.ScheduledAt.UTC()
		}
		if in.MaxCapacity != nil {
			if err := validateCapacity(*in.MaxCapacity); err != nil {
				return err
			}
			if *in.MaxCapacity < out.ClassCurrentCapacity {
				return apperr.Validation("max_capacity",
					fmt.Sprintf("max_capacity cannot be lower than current bookings (%d)", out.ClassCurrentCapacity))
			}
			updates["class_max_capacity"] = *in.MaxCapacity
		}
		if in.Price != nil {
			if err := validatePrice(*in.Price); err != nil {
				return err
			}
			updates["class_price"] = *in.Price
		}
		if in.TeacherSharePercentage != nil {
			if err := validateShare(*in.TeacherSharePercentage); err != nil {
				return err
			}
			updates["class_teacher_share_percentage"] = *in.TeacherSharePercentage
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&model.ClassModel{}).
			Where("class_id = ?", id).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("update class: %w", err)
		}
		return tx.First(&out, "class_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   DELETE
   kelas yang sudah punya reservasi/payment tidak dihapus
========================================================= */

func DeleteClass(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.ClassModel
		if err := dbx.ForUpdate(tx).Select("class_id").First(&c, "class_id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("class")
			}
			return fmt.Errorf("load class: %w", err)
		}

		var n int64
		if err := tx.Model(&reservationModel.ReservationModel{}).
			Where("reservation_class_id = ?", id).
			Count(&n).Error; err != nil {
			return fmt.Errorf("count reservations: %w", err)
		}
		if n > 0 {
			return apperr.Validation("class_id", "class has reservations and cannot be deleted")
		}
		if err := tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_class_id = ?", id).
			Count(&n).Error; err != nil {
			return fmt.Errorf("count payments: %w", err)
		}
		if n > 0 {
			return apperr.Validation("class_id", "class has payments and cannot be deleted")
		}

		if err := tx.Delete(&model.ClassModel{}, "class_id = ?", id).Error; err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return apperr.Validation("class_id", "class is still referenced")
			}
			return fmt.Errorf("delete class: %w", err)
		}
		log.Printf("[Class] deleted class=%s", id)
		return nil
	})
}

/* =========================================================
   helpers
========================================================= */

func validateCapacity(n int) error {
	if n <= 0 {
		return apperr.Validation("max_capacity", "max_capacity must be greater than 0")
	}
	return nil
}

func validatePrice(p float64) error {
	if p < 0 {
		return apperr.Validation("price", "price must be >= 0")
	}
	return nil
}

func validateShare(pct float64) error {
	if pct < 0 || pct > 100 {
		return apperr.Validation("teacher_share_percentage", "teacher_share_percentage must be between 0 and 100")
	}
	return nil
}

func ensureCenter(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&centerModel.CenterModel{}).Where("center_id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check center: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("center")
	}
	return nil
}

func ensureTeacher(tx *gorm.DB, id uuid.UUID) error {
	var u userModel.UserModel
	if err := tx.Select("id", "role", "is_active").First(&u, "id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return apperr.NotFound("teacher")
		}
		return fmt.Errorf("load teacher: %w", err)
	}
	if u.Role != constants.RoleTeacher {
		return apperr.Validation("teacher_id", "user is not a teacher")
	}
	if !u.IsActive {
		return apperr.Validation("teacher_id", "teacher account is inactive")
	}
	return nil
}
