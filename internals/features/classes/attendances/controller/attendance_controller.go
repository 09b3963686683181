// file: internals/features/classes/attendances/controller/attendance_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/features/classes/attendances/dto"
	"yogacenter_backend/internals/features/classes/attendances/model"
	"yogacenter_backend/internals/features/classes/attendances/service"
	classService "yogacenter_backend/internals/features/classes/classes/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		DB:        db,
		Validator: validator.New(),
	}
}

// teacher hanya kelasnya sendiri, staff semua kelas
func (ctl *AttendanceController) ensureClassAccess(c *fiber.Ctx, classID uuid.UUID) error {
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}
	cl, err := classService.GetClass(c.Context(), ctl.DB, classID)
	if err != nil {
		return err
	}
	switch role {
	case constants.RoleAdministrator, constants.RoleReceptionist:
		return nil
	case constants.RoleTeacher:
		userID, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		if cl.ClassTeacherID != userID {
			return fiber.NewError(fiber.StatusForbidden, "you do not teach this class")
		}
		return nil
	case constants.RoleStudent:
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher("attendance"))
	}
	return fiber.NewError(fiber.StatusForbidden, "forbidden")
}

// GET /classes/:id/attendances
func (ctl *AttendanceController) Roster(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.ensureClassAccess(c, classID); err != nil {
		return helper.FromServiceError(c, err)
	}

	rows, err := service.ClassRoster(c.Context(), ctl.DB, classID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Class roster", rows)
}

// POST /classes/:id/attendances
func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctl.ensureClassAccess(c, classID); err != nil {
		return helper.FromServiceError(c, err)
	}

	a, err := service.MarkAttendance(c.Context(), ctl.DB, classID, req.ToInput(), dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", dto.FromModel(a))
}

// POST /classes/:id/attendances/bulk
func (ctl *AttendanceController) Bulk(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.BulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ctl.ensureClassAccess(c, classID); err != nil {
		return helper.FromServiceError(c, err)
	}

	rows, err := service.BulkMark(c.Context(), ctl.DB, classID, req.ToInputs(), dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Attendance saved", dto.FromModels(rows))
}

// GET /api/u/attendances/me
func (ctl *AttendanceController) MyAttendances(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f.StudentID = &userID
	return ctl.list(c, f)
}

// GET /api/a/attendances?student_id=&class_id=&center_id=&teacher_id=&status=&from=&to=
func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	for key, dst := range map[string]**uuid.UUID{
		"student_id": &f.StudentID,
		"class_id":   &f.ClassID,
		"center_id":  &f.CenterID,
		"teacher_id": &f.TeacherID,
	} {
		if *dst, err = helper.ParseUUIDQuery(c, key); err != nil {
			return helper.FromServiceError(c, err)
		}
	}
	return ctl.list(c, f)
}

func (ctl *AttendanceController) list(c *fiber.Ctx, f service.ListFilter) error {
	p := helper.ResolvePaging(c, 50, 200)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := service.ListAttendances(c.Context(), ctl.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Attendances fetched", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

func parseListFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var f service.ListFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st, err := model.ParseAttendanceStatus(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.Status = &st
	}
	loc := dbtime.CenterLocation()
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, _ := dbtime.DayRange(d)
		f.From = &from
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		_, to := dbtime.DayRange(d)
		f.To = &to
	}
	return f, nil
}
