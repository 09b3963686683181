// file: internals/features/centers/centers/controller/center_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/features/centers/centers/dto"
	"yogacenter_backend/internals/features/centers/centers/service"
	helper "yogacenter_backend/internals/helpers"
)

type CenterController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCenterController(db *gorm.DB) *CenterController {
	return &CenterController{DB: db, Validator: validator.New()}
}

// GET /centers?q=
func (ctl *CenterController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := service.ListCenters(c.Context(), ctl.DB, c.Query("q"), p.Offset, p.Limit)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Centers fetched", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /centers/:id
func (ctl *CenterController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := service.GetCenter(c.Context(), ctl.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Center fetched", dto.FromModel(m))
}

// POST /api/a/centers (admin)
func (ctl *CenterController) Create(c *fiber.Ctx) error {
	var req dto.CreateCenterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	m, err := service.CreateCenter(c.Context(), ctl.DB, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Center created", dto.FromModel(m))
}

// PATCH /api/a/centers/:id (admin)
func (ctl *CenterController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateCenterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	m, err := service.UpdateCenter(c.Context(), ctl.DB, id, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Center updated", dto.FromModel(m))
}

// DELETE /api/a/centers/:id (admin)
func (ctl *CenterController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := service.DeleteCenter(c.Context(), ctl.DB, id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Center deleted", fiber.Map{"center_id": id})
}

// GET /api/a/centers/:id/users?role=TEACHER
func (ctl *CenterController) Users(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var role *constants.Role
	if s := strings.TrimSpace(c.Query("role")); s != "" {
		r, err := constants.ParseRole(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		role = &r
	}
	rows, err := service.CenterUsers(c.Context(), ctl.DB, id, role)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Center users", dto.FromUsers(rows))
}

// POST /api/a/centers/:id/users
func (ctl *CenterController) AssignUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.AssignUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	userID := uuid.MustParse(req.UserID)
	if err := service.AssignUser(c.Context(), ctl.DB, id, userID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "User assigned to center", fiber.Map{"center_id": id, "user_id": userID})
}

// DELETE /api/a/centers/:id/users/:user_id
func (ctl *CenterController) UnassignUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	userID, err := helper.ParseUUIDParam(c, "user_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := service.UnassignUser(c.Context(), ctl.DB, id, userID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "User removed from center", fiber.Map{"center_id": id, "user_id": userID})
}
