package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/features/centers/centers/model"
	"yogacenter_backend/internals/features/centers/centers/service"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

type CreateCenterRequest struct {
	CenterName    string `json:"center_name" validate:"required,min=2,max=100"`
	CenterAddress string `json:"center_address" validate:"omitempty,max=200"`
	CenterPhone   string `json:"center_phone" validate:"omitempty,max=20"`
}

func (r CreateCenterRequest) ToInput() service.CenterInput {
	return service.CenterInput{Name: r.CenterName, Address: r.CenterAddress, Phone: r.CenterPhone}
}

type UpdateCenterRequest struct {
	CenterName    *string `json:"center_name" validate:"omitempty,min=2,max=100"`
	CenterAddress *string `json:"center_address" validate:"omitempty,max=200"`
	CenterPhone   *string `json:"center_phone" validate:"omitempty,max=20"`
}

func (r UpdateCenterRequest) ToInput() service.UpdateCenterInput {
	return service.UpdateCenterInput{Name: r.CenterName, Address: r.CenterAddress, Phone: r.CenterPhone}
}

type AssignUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type CenterResponse struct {
	CenterID        uuid.UUID `json:"center_id"`
	CenterName      string    `json:"center_name"`
	CenterAddress   string    `json:"center_address"`
	CenterPhone     string    `json:"center_phone"`
	CenterCreatedAt time.Time `json:"center_created_at"`
	CenterUpdatedAt time.Time `json:"center_updated_at"`
}

func FromModel(m *model.CenterModel) CenterResponse {
	return CenterResponse{
		CenterID:        m.CenterID,
		CenterName:      m.CenterName,
		CenterAddress:   m.CenterAddress,
		CenterPhone:     m.CenterPhone,
		CenterCreatedAt: m.CenterCreatedAt,
		CenterUpdatedAt: m.CenterUpdatedAt,
	}
}

func FromModels(rows []model.CenterModel) []CenterResponse {
	out := make([]CenterResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// CenterMember: ringkasan user di center (tanpa password)
type CenterMember struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

func FromUsers(rows []userModel.UserModel) []CenterMember {
	out := make([]CenterMember, 0, len(rows))
	for _, u := range rows {
		out = append(out, CenterMember{
			ID:       u.ID,
			UserName: u.UserName,
			Email:    u.Email,
			Role:     string(u.Role),
			IsActive: u.IsActive,
		})
	}
	return out
}
