package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	classModel "yogacenter_backend/internals/features/classes/classes/model"
	reservationModel "yogacenter_backend/internals/features/classes/reservations/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

/* ===================== Model ===================== */

// PaymentModel: satu pembayaran untuk satu reservasi. Paling banyak satu
// payment non-refunded per reservasi (idx_payments_live_reservation).
type PaymentModel struct {
	PaymentID            uuid.UUID  `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentStudentID     uuid.UUID  `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`
	PaymentClassID       uuid.UUID  `gorm:"column:payment_class_id;type:uuid;not null;index" json:"payment_class_id"`
	PaymentReservationID *uuid.UUID `gorm:"column:payment_reservation_id;type:uuid;index;index:idx_payments_live_reservation,unique,where:payment_status <> 'refunded'" json:"payment_reservation_id,omitempty"`

	// Nominal
	PaymentAmount float64 `gorm:"column:payment_amount;type:numeric(12,2);not null;check:chk_payment_amount,payment_amount >= 0" json:"payment_amount"`

	PaymentPaidAt time.Time     `gorm:"column:payment_paid_at;not null;index" json:"payment_paid_at"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;size:30;not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:20;not null;index" json:"payment_status"`

	// Gateway (Midtrans Snap)
	PaymentGatewayToken       *string        `gorm:"column:payment_gateway_token;size:255" json:"payment_gateway_token,omitempty"`
	PaymentGatewayRedirectURL *string        `gorm:"column:payment_gateway_redirect_url;type:text" json:"payment_gateway_redirect_url,omitempty"`
	PaymentGatewayPayload     datatypes.JSON `gorm:"column:payment_gateway_payload" json:"payment_gateway_payload,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`

	Student     *userModel.UserModel               `gorm:"foreignKey:PaymentStudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Class       *classModel.ClassModel             `gorm:"foreignKey:PaymentClassID;references:ClassID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Reservation *reservationModel.ReservationModel `gorm:"foreignKey:PaymentReservationID;references:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentPaidAt.IsZero() {
		m.PaymentPaidAt = time.Now().UTC()
	}
	if m.PaymentMethod == "" {
		m.PaymentMethod = PaymentMethodCash
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = m.PaymentMethod.DefaultStatus()
	}
	return nil
}
