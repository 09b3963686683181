// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "yogacenter_backend/internals/features/users/auth/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
)

/* ====================== USER ====================== */

// FindUserByEmail: email disimpan lowercase, caller wajib normalisasi dulu.
func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func LinkGoogleID(db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("google_id", googleID).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newPasswordHash string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newPasswordHash).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempotent: logout dua kali dengan token sama tidak error.
func BlacklistToken(db *gorm.DB, token string, expiredAt time.Time) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoNothing: true,
	}).Create(&authModel.TokenBlacklistModel{
		Token:     token,
		ExpiredAt: expiredAt.UTC(),
	}).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var n int64
	if err := db.Model(&authModel.TokenBlacklistModel{}).Where("token = ?", token).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CleanupExpiredBlacklist hard delete; token yang sudah expired toh ditolak AuthMiddleware.
func CleanupExpiredBlacklist(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Unscoped().Where("expired_at <= ?", now.UTC()).Delete(&authModel.TokenBlacklistModel{})
	return res.RowsAffected, res.Error
}
