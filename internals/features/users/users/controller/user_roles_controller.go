package controller

import (
	"github.com/gofiber/fiber/v2"

	"yogacenter_backend/internals/constants"
	userdto "yogacenter_backend/internals/features/users/users/dto"
	"yogacenter_backend/internals/features/users/users/service"
	helper "yogacenter_backend/internals/helpers"
)

// PATCH /api/a/users/:id/role  (administrator saja)
func (ac *AdminUserController) ChangeRole(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req userdto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	u, err := service.ChangeRole(c.Context(), ac.DB, id, constants.Role(req.Role))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Role updated", userdto.FromModel(u))
}

// POST /api/a/users/:id/activate
func (ac *AdminUserController) Activate(c *fiber.Ctx) error {
	return ac.setActive(c, true)
}

// POST /api/a/users/:id/deactivate
func (ac *AdminUserController) Deactivate(c *fiber.Ctx) error {
	return ac.setActive(c, false)
}

func (ac *AdminUserController) setActive(c *fiber.Ctx, active bool) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if me, err := helper.GetUserIDFromToken(c); err == nil && me == id && !active {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot deactivate your own account")
	}
	u, err := service.SetActive(c.Context(), ac.DB, id, active)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	msg := "User deactivated"
	if active {
		msg = "User activated"
	}
	return helper.JsonUpdated(c, msg, userdto.FromModel(u))
}
