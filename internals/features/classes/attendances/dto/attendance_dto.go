package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/features/classes/attendances/model"
	"yogacenter_backend/internals/features/classes/attendances/service"
)

/* ===================== Requests ===================== */

type MarkAttendanceRequest struct {
	StudentID   string     `json:"student_id" validate:"required,uuid"`
	Status      string     `json:"attendance_status" validate:"required,oneof=present absent late"`
	CheckInTime *time.Time `json:"attendance_check_in_time"`
	Notes       *string    `json:"attendance_notes" validate:"omitempty,max=1000"`
}

func (r MarkAttendanceRequest) ToInput() service.MarkInput {
	return service.MarkInput{
		StudentID:   uuid.MustParse(r.StudentID),
		Status:      model.AttendanceStatus(r.Status),
		CheckInTime: r.CheckInTime,
		Notes:       r.Notes,
	}
}

// BulkAttendanceRequest: simpan absensi satu kelas sekaligus
type BulkAttendanceRequest struct {
	Entries []MarkAttendanceRequest `json:"entries" validate:"required,min=1,dive"`
}

func (r BulkAttendanceRequest) ToInputs() []service.MarkInput {
	out := make([]service.MarkInput, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.ToInput())
	}
	return out
}

/* ===================== Responses ===================== */

type AttendanceResponse struct {
	AttendanceID          uuid.UUID  `json:"attendance_id"`
	AttendanceStudentID   uuid.UUID  `json:"attendance_student_id"`
	AttendanceClassID     uuid.UUID  `json:"attendance_class_id"`
	AttendanceStatus      string     `json:"attendance_status"`
	AttendanceAttendedAt  *time.Time `json:"attendance_attended_at,omitempty"`
	AttendanceCheckInTime *time.Time `json:"attendance_check_in_time,omitempty"`
	AttendanceNotes       *string    `json:"attendance_notes,omitempty"`
	AttendanceUpdatedAt   time.Time  `json:"attendance_updated_at"`
}

func FromModel(m *model.AttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:          m.AttendanceID,
		AttendanceStudentID:   m.AttendanceStudentID,
		AttendanceClassID:     m.AttendanceClassID,
		AttendanceStatus:      string(m.AttendanceStatus),
		AttendanceAttendedAt:  m.AttendanceAttendedAt,
		AttendanceCheckInTime: m.AttendanceCheckInTime,
		AttendanceNotes:       m.AttendanceNotes,
		AttendanceUpdatedAt:   m.AttendanceUpdatedAt,
	}
}

func FromModels(rows []model.AttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
