package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ResolveActingStudent: student selalu bertindak untuk dirinya sendiri,
// staff wajib menyebut student_id.
func ResolveActingStudent(c *fiber.Ctx, requested *string) (uuid.UUID, error) {
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}
	role, err := GetRoleFromToken(c)
	if err != nil {
		return uuid.Nil, err
	}

	var target uuid.UUID
	if requested != nil && strings.TrimSpace(*requested) != "" {
		target, err = uuid.Parse(strings.TrimSpace(*requested))
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid student_id")
		}
	}

	if role.IsStaff() {
		if target == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "student_id is required")
		}
		return target, nil
	}
	if target != uuid.Nil && target != userID {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "you can only act for yourself")
	}
	return userID, nil
}

// EnsureSelfOrStaff: 403 kalau user bukan pemilik dan bukan staff.
func EnsureSelfOrStaff(c *fiber.Ctx, ownerID uuid.UUID) error {
	role, err := GetRoleFromToken(c)
	if err != nil {
		return err
	}
	if role.IsStaff() {
		return nil
	}
	userID, err := GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	if userID != ownerID {
		return fiber.NewError(fiber.StatusForbidden, "this record does not belong to you")
	}
	return nil
}
