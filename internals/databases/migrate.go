package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	attendanceModel "yogacenter_backend/internals/features/classes/attendances/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	authModel "yogacenter_backend/internals/features/users/auth/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

// Models: urutan = urutan migrasi.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&centerModel.CenterModel{},
		&centerModel.UserCenterModel{},
		&classModel.ClassModel{},
		&reservationModel.ReservationModel{},
		&attendanceModel.AttendanceModel{},
		&paymentModel.PaymentModel{},
		&authModel.TokenBlacklistModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("✅ Schema migrated.")
	return nil
}
