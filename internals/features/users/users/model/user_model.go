package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string         `gorm:"column:user_name;size:100;not null" json:"user_name"`
	Email     string         `gorm:"column:email;size:120;not null;uniqueIndex" json:"email"`
	Phone     *string        `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Password  string         `gorm:"column:password;size:250;not null" json:"-"`
	Role      constants.Role `gorm:"column:role;size:20;not null;index" json:"role"`
	GoogleID  *string        `gorm:"column:google_id;size:255;uniqueIndex" json:"google_id,omitempty"`
	IsActive  bool           `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleStudent
	}
	return nil
}
