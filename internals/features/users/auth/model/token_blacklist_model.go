package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklistModel: access token yang sudah logout, ditolak AuthMiddleware
// sampai expired lalu dibersihkan scheduler.
type TokenBlacklistModel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"column:token;type:text;not null;uniqueIndex" json:"token"`
	ExpiredAt time.Time      `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
