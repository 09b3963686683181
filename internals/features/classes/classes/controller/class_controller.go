// file: internals/features/classes/classes/controller/class_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	"yogacenter_backend/internals/features/classes/classes/dto"
	"yogacenter_backend/internals/features/classes/classes/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/dbtime"
)

type ClassController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================================================
   WRITE (staff)
========================================================= */

// POST /api/a/classes
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	cl, err := service.CreateClass(c.Context(), ctl.DB, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Class created", dto.FromModel(cl))
}

// PATCH /api/a/classes/:id
func (ctl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	cl, err := service.UpdateClass(c.Context(), ctl.DB, id, req.ToInput())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Class updated", dto.FromModel(cl))
}

// DELETE /api/a/classes/:id
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := service.DeleteClass(c.Context(), ctl.DB, id); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"class_id": id})
}

/* =========================================================
   READ
========================================================= */

// GET /classes?center_id=&teacher_id=&date=YYYY-MM-DD&from=&to=&available=true
func (ctl *ClassController) List(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return ctl.list(c, f)
}

// GET /api/t/classes/me?date=  (kelas milik teacher yang login)
func (ctl *ClassController) MyClasses(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f.TeacherID = &userID
	return ctl.list(c, f)
}

func (ctl *ClassController) list(c *fiber.Ctx, f service.ListFilter) error {
	p := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := service.ListClasses(c.Context(), ctl.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Classes fetched", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /classes/available?date=YYYY-MM-DD&center_id=&student_id=
// Student: kelas yang sudah ia reserve tidak ditampilkan.
func (ctl *ClassController) Available(c *fiber.Ctx) error {
	loc := dbtime.CenterLocation()
	day := dbtime.NowUTC().In(loc)
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		day = d
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	studentID, err := ctl.availabilityStudent(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	from, to := dbtime.DayRange(day)
	rows, err := service.AvailableClasses(c.Context(), ctl.DB, from, to, studentID, centerID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Available classes", dto.FromModels(rows))
}

// student: selalu dirinya sendiri; staff/teacher: ?student_id opsional
func (ctl *ClassController) availabilityStudent(c *fiber.Ctx) (*uuid.UUID, error) {
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return nil, err
	}
	if role == constants.RoleStudent {
		id, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}
	return helper.ParseUUIDQuery(c, "student_id")
}

// GET /classes/upcoming?days=7&center_id=
func (ctl *ClassController) Upcoming(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 || days > 90 {
		return helper.JsonError(c, fiber.StatusBadRequest, "days must be between 1 and 90")
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var teacherID *uuid.UUID
	if role, _ := helper.GetRoleFromToken(c); role == constants.RoleTeacher {
		id, err := helper.GetUserIDFromToken(c)
		if err != nil {
			return helper.FromServiceError(c, err)
		}
		teacherID = &id
	}

	rows, err := service.UpcomingClasses(c.Context(), ctl.DB, dbtime.NowUTC(), days, teacherID, centerID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Upcoming classes", dto.FromModels(rows))
}

// GET /classes/:id
func (ctl *ClassController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	cl, err := service.GetClass(c.Context(), ctl.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Class fetched", dto.FromModel(cl))
}

func parseListFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var f service.ListFilter
	var err error
	if f.CenterID, err = helper.ParseUUIDQuery(c, "center_id"); err != nil {
		return f, err
	}
	if f.TeacherID, err = helper.ParseUUIDQuery(c, "teacher_id"); err != nil {
		return f, err
	}

	loc := dbtime.CenterLocation()
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, to := dbtime.DayRange(d)
		f.From, f.To = &from, &to
	}
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
	f.AvailableOnly = c.QueryBool("available", false)
	return f, nil
}
