package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/features/classes/reservations/model"
	"yogacenter_backend/internals/features/classes/reservations/service"
)

/* ===================== Requests ===================== */

// Student boleh kosongkan student_id (pakai dirinya sendiri); staff wajib isi.
type CreateReservationRequest struct {
	StudentID *string `json:"student_id" validate:"omitempty,uuid"`
	ClassID   string  `json:"class_id" validate:"required,uuid"`
}

/* ===================== Responses ===================== */

type ReservationResponse struct {
	ReservationID          uuid.UUID  `json:"reservation_id"`
	ReservationStudentID   uuid.UUID  `json:"reservation_student_id"`
	ReservationClassID     uuid.UUID  `json:"reservation_class_id"`
	ReservationStatus      string     `json:"reservation_status"`
	ReservationReservedAt  time.Time  `json:"reservation_reserved_at"`
	ReservationCancelledAt *time.Time `json:"reservation_cancelled_at,omitempty"`
	ReservationCompletedAt *time.Time `json:"reservation_completed_at,omitempty"`

	// diisi hanya di list (join classes)
	ClassScheduledAt *time.Time `json:"class_scheduled_at,omitempty"`
	ClassCenterID    *uuid.UUID `json:"class_center_id,omitempty"`
	ClassTeacherID   *uuid.UUID `json:"class_teacher_id,omitempty"`
	ClassPrice       *float64   `json:"class_price,omitempty"`
}

func FromModel(m *model.ReservationModel) ReservationResponse {
	return ReservationResponse{
		ReservationID:          m.ReservationID,
		ReservationStudentID:   m.ReservationStudentID,
		ReservationClassID:     m.ReservationClassID,
		ReservationStatus:      string(m.ReservationStatus),
		ReservationReservedAt:  m.ReservationReservedAt,
		ReservationCancelledAt: m.ReservationCancelledAt,
		ReservationCompletedAt: m.ReservationCompletedAt,
	}
}

func FromView(v service.ReservationView) ReservationResponse {
	out := FromModel(&v.ReservationModel)
	out.ClassScheduledAt = &v.ClassScheduledAt
	out.ClassCenterID = &v.ClassCenterID
	out.ClassTeacherID = &v.ClassTeacherID
	out.ClassPrice = &v.ClassPrice
	return out
}

func FromViews(rows []service.ReservationView) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromView(r))
	}
	return out
}
