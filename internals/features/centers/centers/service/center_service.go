// file: internals/features/centers/centers/service/center_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/features/centers/centers/model"
	classModel "yogacenter_backend/internals/features/classes/classes/model"
	userModel "yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type CenterInput struct {
	Name    string
	Address string
	Phone   string
}

type UpdateCenterInput struct {
	Name    *string
	Address *string
	Phone   *string
}

/* =========================================================
   CRUD
========================================================= */

func CreateCenter(ctx context.Context, db *gorm.DB, in CenterInput) (*model.CenterModel, error) {
	c := &model.CenterModel{
		CenterName:    strings.TrimSpace(in.Name),
		CenterAddress: strings.TrimSpace(in.Address),
		CenterPhone:   strings.TrimSpace(in.Phone),
	}
	if c.CenterName == "" {
		return nil, apperr.Validation("center_name", "center_name is required")
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create center: %w", err)
	}
	log.Printf("[Center] created center=%s name=%q", c.CenterID, c.CenterName)
	return c, nil
}

func UpdateCenter(ctx context.Context, db *gorm.DB, id uuid.UUID, in UpdateCenterInput) (*model.CenterModel, error) {
	c, err := GetCenter(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("center_name", "center_name cannot be empty")
		}
		updates["center_name"] = name
	}
	if in.Address != nil {
		updates["center_address"] = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		updates["center_phone"] = strings.TrimSpace(*in.Phone)
	}
	if len(updates) == 0 {
		return c, nil
	}

	if err := db.WithContext(ctx).Model(&model.CenterModel{}).
		Where("center_id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update center: %w", err)
	}
	return GetCenter(ctx, db, id)
}

// DeleteCenter: center yang masih punya kelas tidak boleh dihapus.
func DeleteCenter(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.CenterModel
		if err := dbx.ForUpdate(tx).First(&c, "center_id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("center")
			}
			return fmt.Errorf("load center: %w", err)
		}

		var n int64
		if err := tx.Model(&classModel.ClassModel{}).Where("class_center_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count classes: %w", err)
		}
		if n > 0 {
			return apperr.Validation("center_id", "center still has classes")
		}

		if err := tx.Where("user_center_center_id = ?", id).Delete(&model.UserCenterModel{}).Error; err != nil {
			return fmt.Errorf("unlink users: %w", err)
		}
		if err := tx.Delete(&model.CenterModel{}, "center_id = ?", id).Error; err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return apperr.Validation("center_id", "center is still referenced")
			}
			return fmt.Errorf("delete center: %w", err)
		}
		log.Printf("[Center] deleted center=%s", id)
		return nil
	})
}

func GetCenter(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CenterModel, error) {
	var c model.CenterModel
	if err := db.WithContext(ctx).First(&c, "center_id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("center")
		}
		return nil, fmt.Errorf("get center: %w", err)
	}
	return &c, nil
}

// ListCenters: q mencari di nama/alamat (case-insensitive).
func ListCenters(ctx context.Context, db *gorm.DB, q string, offset, limit int) ([]model.CenterModel, int64, error) {
	tx := db.WithContext(ctx).Model(&model.CenterModel{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(center_name) LIKE ? OR LOWER(center_address) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count centers: %w", err)
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []model.CenterModel
	if err := tx.Order("center_name ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list centers: %w", err)
	}
	return rows, total, nil
}

// FirstCenter: center pertama (urut created_at), nil kalau belum ada.
func FirstCenter(ctx context.Context, db *gorm.DB) (*model.CenterModel, error) {
	var rows []model.CenterModel
	if err := db.WithContext(ctx).Order("center_created_at ASC").Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("first center: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

/* =========================================================
   USER <-> CENTER
========================================================= */

// AssignUser idempotent: pasangan yang sudah ada tidak error.
func AssignUser(ctx context.Context, db *gorm.DB, centerID, userID uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := GetCenter(ctx, tx, centerID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&userModel.UserModel{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if n == 0 {
			return apperr.NotFound("user")
		}

		link := model.UserCenterModel{UserCenterUserID: userID, UserCenterCenterID: centerID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("assign user: %w", err)
		}
		return nil
	})
}

func UnassignUser(ctx context.Context, db *gorm.DB, centerID, userID uuid.UUID) error {
	res := db.WithContext(ctx).
		Where("user_center_center_id = ? AND user_center_user_id = ?", centerID, userID).
		Delete(&model.UserCenterModel{})
	if res.Error != nil {
		return fmt.Errorf("unassign user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Validation("user_id", "user is not assigned to this center")
	}
	return nil
}

// CenterUsers: user yang terhubung ke center, opsional filter role.
func CenterUsers(ctx context.Context, db *gorm.DB, centerID uuid.UUID, role *constants.Role) ([]userModel.UserModel, error) {
	if _, err := GetCenter(ctx, db, centerID); err != nil {
		return nil, err
	}
	q := db.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Joins("JOIN user_centers uc ON uc.user_center_user_id = users.id").
		Where("uc.user_center_center_id = ?", centerID)
	if role != nil {
		q = q.Where("users.role = ?", *role)
	}
	var rows []userModel.UserModel
	if err := q.Order("users.user_name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("center users: %w", err)
	}
	return rows, nil
}

// UserCenters: semua center milik user.
func UserCenters(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.CenterModel, error) {
	var rows []model.CenterModel
	if err := db.WithContext(ctx).
		Model(&model.CenterModel{}).
		Joins("JOIN user_centers uc ON uc.user_center_center_id = centers.center_id").
		Where("uc.user_center_user_id = ?", userID).
		Order("centers.center_name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("user centers: %w", err)
	}
	return rows, nil
}
