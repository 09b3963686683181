package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "yogacenter_backend/internals/features/users/users/model"
)

type CenterModel struct {
	CenterID        uuid.UUID `gorm:"column:center_id;type:uuid;primaryKey" json:"center_id"`
	CenterName      string    `gorm:"column:center_name;size:100;not null;index" json:"center_name"`
	CenterAddress   string    `gorm:"column:center_address;size:200;not null" json:"center_address"`
	CenterPhone     string    `gorm:"column:center_phone;size:20;not null" json:"center_phone"`
	CenterCreatedAt time.Time `gorm:"column:center_created_at;autoCreateTime" json:"center_created_at"`
	CenterUpdatedAt time.Time `gorm:"column:center_updated_at;autoUpdateTime" json:"center_updated_at"`
}

func (CenterModel) TableName() string { return "centers" }

func (m *CenterModel) BeforeCreate(tx *gorm.DB) error {
	if m.CenterID == uuid.Nil {
		m.CenterID = uuid.New()
	}
	return nil
}

// UserCenterModel: pivot staff/teacher/student <-> center (many-to-many)
type UserCenterModel struct {
	UserCenterUserID    uuid.UUID `gorm:"column:user_center_user_id;type:uuid;primaryKey" json:"user_center_user_id"`
	UserCenterCenterID  uuid.UUID `gorm:"column:user_center_center_id;type:uuid;primaryKey;index" json:"user_center_center_id"`
	UserCenterCreatedAt time.Time `gorm:"column:user_center_created_at;autoCreateTime" json:"user_center_created_at"`

	User   *userModel.UserModel `gorm:"foreignKey:UserCenterUserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Center *CenterModel         `gorm:"foreignKey:UserCenterCenterID;references:CenterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserCenterModel) TableName() string { return "user_centers" }
