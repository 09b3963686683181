package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	centerDTO "yogacenter_backend/internals/features/centers/centers/dto"
	centerService "yogacenter_backend/internals/features/centers/centers/service"
	userdto "yogacenter_backend/internals/features/users/users/dto"
	"yogacenter_backend/internals/features/users/users/service"
	helper "yogacenter_backend/internals/helpers"
)

type AdminUserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAdminUserController(db *gorm.DB) *AdminUserController {
	return &AdminUserController{DB: db, Validator: validator.New()}
}

// GET /api/a/users
// Query:
//   q=namaOrEmail, role=TEACHER, active=true|false, center_id=uuid, page, per_page
func (ac *AdminUserController) ListUsers(c *fiber.Ctx) error {
	var f service.ListFilter
	f.Q = strings.TrimSpace(c.Query("q"))

	if s := strings.TrimSpace(c.Query("role")); s != "" {
		r, err := constants.ParseRole(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		f.Role = &r
	}
	if s := strings.TrimSpace(c.Query("active")); s != "" {
		active := c.QueryBool("active", true)
		f.IsActive = &active
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f.CenterID = centerID

	p := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := service.ListUsers(c.Context(), ac.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Users fetched", userdto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/a/users/:id
func (ac *AdminUserController) GetUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	u, err := service.GetUser(c.Context(), ac.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "User fetched", userdto.FromModel(u))
}

// POST /api/a/users
func (ac *AdminUserController) CreateUser(c *fiber.Ctx) error {
	var req userdto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	// receptionist hanya boleh membuat akun student/teacher
	role, _ := helper.GetRoleFromToken(c)
	want := constants.Role(req.Role)
	if role != constants.RoleAdministrator && want.IsStaff() {
		return helper.JsonError(c, fiber.StatusForbidden, constants.RoleErrorAdmin("staff account creation"))
	}

	u, err := service.CreateUser(c.Context(), ac.DB, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "User created", userdto.FromModel(u))
}

// PATCH /api/a/users/:id
func (ac *AdminUserController) UpdateUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req userdto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	u, err := service.UpdateUser(c.Context(), ac.DB, id, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "User updated", userdto.FromModel(u))
}

// DELETE /api/a/users/:id
func (ac *AdminUserController) DeleteUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if me, err := helper.GetUserIDFromToken(c); err == nil && me == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "You cannot delete your own account")
	}
	if err := service.DeleteUser(c.Context(), ac.DB, id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}

// GET /api/a/users/:id/centers
func (ac *AdminUserController) UserCenters(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if _, err := service.GetUser(c.Context(), ac.DB, id); err != nil {
		return helper.FromServiceError(c, err)
	}
	rows, err := centerService.UserCenters(c.Context(), ac.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "User centers fetched", centerDTO.FromModels(rows))
}

/* =========================================================
   SELF (/api/u/users/me)
========================================================= */

// PATCH /api/u/users/me : nama, email, phone. Password lewat /auth/change-password.
func (ac *AdminUserController) UpdateMe(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req userdto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in := req.ToInput()
	in.Password = nil
	u, err := service.UpdateUser(c.Context(), ac.DB, id, in)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", userdto.FromModel(u))
}
