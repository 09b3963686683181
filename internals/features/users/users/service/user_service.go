// file: internals/features/users/users/service/user_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	centerModel "yogacenter_backend/internals/features/centers/centers/model"
	authHelper "yogacenter_backend/internals/features/users/auth/helper"
	"yogacenter_backend/internals/features/users/users/model"
	"yogacenter_backend/internals/helpers/apperr"
	"yogacenter_backend/internals/helpers/dbx"
)

type CreateUserInput struct {
	Name      string
	Email     string
	Phone     *string
	Password  string
	Role      constants.Role
	GoogleID  *string
	CenterIDs []uuid.UUID
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

type ListFilter struct {
	Q        string // cari di nama/email
	Role     *constants.Role
	IsActive *bool
	CenterID *uuid.UUID
	Offset   int
	Limit    int
}

/* =========================================================
   CREATE
========================================================= */

// CreateUser: password di-hash bcrypt, email unik (case-insensitive).
func CreateUser(ctx context.Context, db *gorm.DB, in CreateUserInput) (*model.UserModel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("user_name", "name is required")
	}
	email := authHelper.NormalizeEmail(in.Email)
	if !authHelper.IsValidEmail(email) {
		return nil, apperr.Validation("email", "email is not valid")
	}
	if in.Role == "" {
		in.Role = constants.RoleStudent
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("role", fmt.Sprintf("unknown role %q", in.Role))
	}
	if err := authHelper.ValidatePassword(in.Password); err != nil {
		return nil, apperr.Validation("password", err.Error())
	}
	hash, err := authHelper.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.UserModel{
		UserName: name,
		Email:    email,
		Phone:    trimPtr(in.Phone),
		Password: hash,
		Role:     in.Role,
		GoogleID: in.GoogleID,
		IsActive: true,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Validation("email", "email is already registered")
		}
		if err := tx.Create(u).Error; err != nil {
			if dbx.IsDuplicate(err) {
				return apperr.Validation("email", "email is already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}
		for _, cid := range in.CenterIDs {
			var n int64
			if err := tx.Model(&centerModel.CenterModel{}).Where("center_id = ?", cid).Count(&n).Error; err != nil {
				return fmt.Errorf("check center: %w", err)
			}
			if n == 0 {
				return apperr.NotFound("center")
			}
			link := centerModel.UserCenterModel{UserCenterUserID: u.ID, UserCenterCenterID: cid}
			if err := tx.Create(&link).Error; err != nil && !dbx.IsDuplicate(err) {
				return fmt.Errorf("assign center: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[User] created user=%s role=%s", u.ID, u.Role)
	return u, nil
}

/* =========================================================
   UPDATE
========================================================= */

func UpdateUser(ctx context.Context, db *gorm.DB, id uuid.UUID, in UpdateUserInput) (*model.UserModel, error) {
	var out model.UserModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("user")
			}
			return fmt.Errorf("load user: %w", err)
		}

		updates := map[string]any{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperr.Validation("user_name", "name cannot be empty")
			}
			updates["user_name"] = name
		}
		if in.Email != nil {
			email := authHelper.NormalizeEmail(*in.Email)
			if !authHelper.IsValidEmail(email) {
				return apperr.Validation("email", "email is not valid")
			}
			taken, err := emailTaken(tx, email, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Validation("email", "email is already registered")
			}
			updates["email"] = email
		}
		if in.Phone != nil {
			updates["phone"] = trimPtr(in.Phone)
		}
		if in.Password != nil && *in.Password != "" {
			if err := authHelper.ValidatePassword(*in.Password); err != nil {
				return apperr.Validation("password", err.Error())
			}
			hash, err := authHelper.HashPassword(*in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			updates["password"] = hash
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model.UserModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if dbx.IsDuplicate(err) {
				return apperr.Validation("email", "email is already registered")
			}
			return fmt.Errorf("update user: %w", err)
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeRole: administrator terakhir tidak boleh diturunkan.
func ChangeRole(ctx context.Context, db *gorm.DB, id uuid.UUID, role constants.Role) (*model.UserModel, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role", fmt.Sprintf("unknown role %q", role))
	}
	var out model.UserModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dbx.ForUpdate(tx).First(&out, "id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("user")
			}
			return fmt.Errorf("load user: %w", err)
		}
		if out.Role == role {
			return nil
		}
		if out.Role == constants.RoleAdministrator {
			if err := ensureAnotherAdmin(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&model.UserModel{}).Where("id = ?", id).Update("role", role).Error; err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		out.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[User] role changed user=%s role=%s", id, role)
	return &out, nil
}

// SetActive: (de)aktivasi akun. Admin aktif terakhir tidak boleh dinonaktifkan.
func SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (*model.UserModel, error) {
	var out model.UserModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := dbx.ForUpdate(tx).First(&out, "id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("user")
			}
			return fmt.Errorf("load user: %w", err)
		}
		if out.IsActive == active {
			return nil
		}
		if !active && out.Role == constants.RoleAdministrator {
			if err := ensureAnotherAdmin(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&model.UserModel{}).Where("id = ?", id).Update("is_active", active).Error; err != nil {
			return fmt.Errorf("update is_active: %w", err)
		}
		out.IsActive = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   DELETE
   user dengan riwayat (kelas/reservasi/payment/absensi) hanya bisa dinonaktifkan
========================================================= */

func DeleteUser(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.UserModel
		if err := dbx.ForUpdate(tx).First(&u, "id = ?", id).Error; err != nil {
			if dbx.IsNotFound(err) {
				return apperr.NotFound("user")
			}
			return fmt.Errorf("load user: %w", err)
		}
		if u.Role == constants.RoleAdministrator {
			if err := ensureAnotherAdmin(tx, id); err != nil {
				return err
			}
		}

		history := []struct{ table, column string }{
			{"classes", "class_teacher_id"},
			{"reservations", "reservation_student_id"},
			{"payments", "payment_student_id"},
			{"attendances", "attendance_student_id"},
		}
		for _, h := range history {
			var n int64
			if err := tx.Table(h.table).Where(h.column+" = ?", id).Count(&n).Error; err != nil {
				return fmt.Errorf("check %s: %w", h.table, err)
			}
			if n > 0 {
				return apperr.Validation("user_id", "user has "+h.table+"; deactivate the account instead")
			}
		}

		if err := tx.Where("user_center_user_id = ?", id).Delete(&centerModel.UserCenterModel{}).Error; err != nil {
			return fmt.Errorf("unlink centers: %w", err)
		}
		if err := tx.Delete(&model.UserModel{}, "id = ?", id).Error; err != nil {
			if dbx.IsForeignKeyViolation(err) {
				return apperr.Validation("user_id", "user is still referenced; deactivate the account instead")
			}
			return fmt.Errorf("delete user: %w", err)
		}
		log.Printf("[User] deleted user=%s", id)
		return nil
	})
}

/* =========================================================
   READ
========================================================= */

func GetUser(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if dbx.IsNotFound(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func ListUsers(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.UserModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.UserModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(users.user_name) LIKE ? OR LOWER(users.email) LIKE ?", like, like)
	}
	if f.Role != nil {
		q = q.Where("users.role = ?", *f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("users.is_active = ?", *f.IsActive)
	}
	if f.CenterID != nil {
		q = q.Joins("JOIN user_centers uc ON uc.user_center_user_id = users.id").
			Where("uc.user_center_center_id = ?", *f.CenterID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	var rows []model.UserModel
	if err := q.Order("users.user_name ASC").Offset(f.Offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return rows, total, nil
}

// HasAdministrator dipakai seed saat start pertama.
func HasAdministrator(ctx context.Context, db *gorm.DB) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.UserModel{}).
		Where("role = ?", constants.RoleAdministrator).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("count administrators: %w", err)
	}
	return n > 0, nil
}

/* =========================================================
   helpers
========================================================= */

func emailTaken(tx *gorm.DB, email string, exceptID uuid.UUID) (bool, error) {
	q := tx.Model(&model.UserModel{}).Where("LOWER(email) = ?", email)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

func ensureAnotherAdmin(tx *gorm.DB, exceptID uuid.UUID) error {
	var n int64
	if err := tx.Model(&model.UserModel{}).
		Where("role = ? AND is_active = ? AND id <> ?", constants.RoleAdministrator, true, exceptID).
		Count(&n).Error; err != nil {
		return fmt.Errorf("count administrators: %w", err)
	}
	if n == 0 {
		return apperr.Validation("role", "at least one active administrator is required")
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
