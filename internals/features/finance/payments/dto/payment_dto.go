package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/features/finance/payments/service"
)

/* =========================================================
   REQUEST DTOs
   JSON tags = nama kolom DB (snake_case)
========================================================= */

// CreatePaymentRequest: receptionist mencatat pembayaran reservasi yang sudah ada.
type CreatePaymentRequest struct {
	PaymentStudentID     string     `json:"payment_student_id" validate:"required,uuid"`
	PaymentClassID       string     `json:"payment_class_id" validate:"required,uuid"`
	PaymentReservationID *string    `json:"payment_reservation_id" validate:"omitempty,uuid"`
	PaymentAmount        *float64   `json:"payment_amount" validate:"omitempty,gte=0"`
	PaymentMethod        string     `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer gateway other"`
	PaymentStatus        *string    `json:"payment_status" validate:"omitempty,oneof=pending paid"`
	PaymentPaidAt        *time.Time `json:"payment_paid_at"`
}

func (r CreatePaymentRequest) ToInput() service.CreatePaymentInput {
	in := service.CreatePaymentInput{
		StudentID: uuid.MustParse(r.PaymentStudentID),
		ClassID:   uuid.MustParse(r.PaymentClassID),
		Amount:    r.PaymentAmount,
		Method:    model.PaymentMethod(r.PaymentMethod),
	}
	if r.PaymentReservationID != nil && *r.PaymentReservationID != "" {
		id := uuid.MustParse(*r.PaymentReservationID)
		in.ReservationID = &id
	}
	if r.PaymentStatus != nil {
		st := model.PaymentStatus(*r.PaymentStatus)
		in.Status = &st
	}
	if r.PaymentPaidAt != nil {
		in.PaidAt = r.PaymentPaidAt.UTC()
	}
	return in
}

// ReserveAndPayRequest: "Reservar y Pagar". student_id hanya dipakai staff.
type ReserveAndPayRequest struct {
	StudentID     *string `json:"student_id" validate:"omitempty,uuid"`
	ClassID       string  `json:"class_id" validate:"required,uuid"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer gateway other"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type PaymentResponse struct {
	PaymentID            uuid.UUID  `json:"payment_id"`
	PaymentStudentID     uuid.UUID  `json:"payment_student_id"`
	PaymentClassID       uuid.UUID  `json:"payment_class_id"`
	PaymentReservationID *uuid.UUID `json:"payment_reservation_id,omitempty"`

	PaymentAmount float64   `json:"payment_amount"`
	PaymentPaidAt time.Time `json:"payment_paid_at"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`

	PaymentGatewayToken       *string `json:"payment_gateway_token,omitempty"`
	PaymentGatewayRedirectURL *string `json:"payment_gateway_redirect_url,omitempty"`

	PaymentCreatedAt time.Time `json:"payment_created_at"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at"`
}

func FromModel(m *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:                 m.PaymentID,
		PaymentStudentID:          m.PaymentStudentID,
		PaymentClassID:            m.PaymentClassID,
		PaymentReservationID:      m.PaymentReservationID,
		PaymentAmount:             m.PaymentAmount,
		PaymentPaidAt:             m.PaymentPaidAt,
		PaymentMethod:             string(m.PaymentMethod),
		PaymentStatus:             string(m.PaymentStatus),
		PaymentGatewayToken:       m.PaymentGatewayToken,
		PaymentGatewayRedirectURL: m.PaymentGatewayRedirectURL,
		PaymentCreatedAt:          m.PaymentCreatedAt,
		PaymentUpdatedAt:          m.PaymentUpdatedAt,
	}
}

func FromModels(rows []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type SplitResponse struct {
	PaymentID uuid.UUID `json:"payment_id"`
	service.EarningsSplit
}
