package dto

import (
	"time"

	"github.com/google/uuid"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/features/users/users/service"
)

/* =========
   Request
   ========= */

type CreateUserRequest struct {
	UserName  string      `json:"user_name" validate:"required,min=2,max=100"`
	Email     string      `json:"email"     validate:"required,email"`
	Phone     *string     `json:"phone"     validate:"omitempty,max=20"`
	Password  string      `json:"password"  validate:"required,min=6"`
	Role      string      `json:"role"      validate:"omitempty,oneof=ADMINISTRATOR RECEPTIONIST TEACHER STUDENT"`
	CenterIDs []uuid.UUID `json:"center_ids"`
}

func (r CreateUserRequest) ToInput() service.CreateUserInput {
	return service.CreateUserInput{
		Name:      r.UserName,
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  r.Password,
		Role:      constants.Role(r.Role),
		CenterIDs: r.CenterIDs,
	}
}

// UpdateUserRequest: partial, field kosong (nil) tidak diubah
type UpdateUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Phone    *string `json:"phone"     validate:"omitempty,max=20"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
}

func (r UpdateUserRequest) ToInput() service.UpdateUserInput {
	return service.UpdateUserInput{
		Name:     r.UserName,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMINISTRATOR RECEPTIONIST TEACHER STUDENT"`
}

/* =========
   Response
   ========= */

type UserResponse struct {
	ID           uuid.UUID      `json:"id"`
	UserName     string         `json:"user_name"`
	Email        string         `json:"email"`
	Phone        *string        `json:"phone,omitempty"`
	Role         constants.Role `json:"role"`
	GoogleLinked bool           `json:"google_linked"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func FromModel(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:           u.ID,
		UserName:     u.UserName,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		GoogleLinked: u.GoogleID != nil && *u.GoogleID != "",
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromModels(rows []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
