package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/features/classes/classes/model"
	"yogacenter_backend/internals/features/classes/classes/service"
)

/* ===================== Requests ===================== */

type CreateClassRequest struct {
	ClassCenterID               string    `json:"class_center_id" validate:"required,uuid"`
	ClassTeacherID              string    `json:"class_teacher_id" validate:"required,uuid"`
	ClassScheduledAt            time.Time `json:"class_scheduled_at" validate:"required"`
	ClassMaxCapacity            int       `json:"class_max_capacity" validate:"required,gt=0"`
	ClassPrice                  *float64  `json:"class_price" validate:"omitempty,gte=0"`
	ClassTeacherSharePercentage *float64  `json:"class_teacher_share_percentage" validate:"omitempty,gte=0,lte=100"`
}

func (r CreateClassRequest) ToInput() service.CreateClassInput {
	return service.CreateClassInput{
		CenterID:               uuid.MustParse(r.ClassCenterID),
		TeacherID:              uuid.MustParse(r.ClassTeacherID),
		ScheduledAt:            r.ClassScheduledAt,
		MaxCapacity:            r.ClassMaxCapacity,
		Price:                  r.ClassPrice,
		TeacherSharePercentage: r.ClassTeacherSharePercentage,
	}
}

// PATCH: semua opsional
type UpdateClassRequest struct {
	ClassCenterID               *string    `json:"class_center_id" validate:"omitempty,uuid"`
	ClassTeacherID              *string    `json:"class_teacher_id" validate:"omitempty,uuid"`
	ClassScheduledAt            *time.Time `json:"class_scheduled_at"`
	ClassMaxCapacity            *int       `json:"class_max_capacity" validate:"omitempty,gt=0"`
	ClassPrice                  *float64   `json:"class_price" validate:"omitempty,gte=0"`
	ClassTeacherSharePercentage *float64   `json:"class_teacher_share_percentage" validate:"omitempty,gte=0,lte=100"`
}

func (r UpdateClassRequest) ToInput() service.UpdateClassInput {
	in := service.UpdateClassInput{
		ScheduledAt:            r.ClassScheduledAt,
		MaxCapacity:            r.ClassMaxCapacity,
		Price:                  r.ClassPrice,
		TeacherSharePercentage: r.ClassTeacherSharePercentage,
	}
	if r.ClassCenterID != nil {
		id := uuid.MustParse(*r.ClassCenterID)
		in.CenterID = &id
	}
	if r.ClassTeacherID != nil {
		id := uuid.MustParse(*r.ClassTeacherID)
		in.TeacherID = &id
	}
	return in
}

/* ===================== Responses ===================== */

type ClassResponse struct {
	ClassID                     uuid.UUID `json:"class_id"`
	ClassCenterID               uuid.UUID `json:"class_center_id"`
	ClassTeacherID              uuid.UUID `json:"class_teacher_id"`
	ClassScheduledAt            time.Time `json:"class_scheduled_at"`
	ClassMaxCapacity            int       `json:"class_max_capacity"`
	ClassCurrentCapacity        int       `json:"class_current_capacity"`
	ClassAvailableSpots         int       `json:"class_available_spots"`
	ClassIsFull                 bool      `json:"class_is_full"`
	ClassPrice                  float64   `json:"class_price"`
	ClassTeacherSharePercentage float64   `json:"class_teacher_share_percentage"`
	ClassCreatedAt              time.Time `json:"class_created_at"`
	ClassUpdatedAt              time.Time `json:"class_updated_at"`
}

func FromModel(m *model.ClassModel) ClassResponse {
	return ClassResponse{
		ClassID:                     m.ClassID,
		ClassCenterID:               m.ClassCenterID,
		ClassTeacherID:              m.ClassTeacherID,
		ClassScheduledAt:            m.ClassScheduledAt,
		ClassMaxCapacity:            m.ClassMaxCapacity,
		ClassCurrentCapacity:        m.ClassCurrentCapacity,
		ClassAvailableSpots:         m.AvailableSpots(),
		ClassIsFull:                 m.IsFull(),
		ClassPrice:                  m.ClassPrice,
		ClassTeacherSharePercentage: m.ClassTeacherSharePercentage,
		ClassCreatedAt:              m.ClassCreatedAt,
		ClassUpdatedAt:              m.ClassUpdatedAt,
	}
}

func FromModels(rows []model.ClassModel) []ClassResponse {
	out := make([]ClassResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
