// file: internals/features/classes/reservations/controller/reservation_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/classes/reservations/dto"
	"yogacenter_backend/internals/features/classes/reservations/model"
	"yogacenter_backend/internals/features/classes/reservations/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/dbtime"
)

type ReservationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================================================
   CREATE
   POST /api/u/reservations  (student untuk dirinya sendiri)
   POST /api/a/reservations  (staff, student_id wajib)
========================================================= */

func (ctl *ReservationController) Create(c *fiber.Ctx) error {
	var req dto.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	studentID, err := helper.ResolveActingStudent(c, req.StudentID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	classID := uuid.MustParse(req.ClassID)

	r, err := service.Reserve(c.Context(), ctl.DB, studentID, classID, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Reservation created", dto.FromModel(r))
}

/* =========================================================
   LIST
========================================================= */

// GET /api/u/reservations/me?status=active
func (ctl *ReservationController) MyReservations(c *fiber.Ctx) error {
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

// GET /api/a/reservations?student_id=&class_id=&center_id=&status=&date=YYYY-MM-DD
func (ctl *ReservationController) List(c *fiber.Ctx) error {
	f, err := parseListFilter(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if f.StudentID, err = helper.ParseUUIDQuery(c, "student_id"); err != nil {
		return helper.FromServiceError(c, err)
	}
	if f.ClassID, err = helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return helper.FromServiceError(c, err)
	}
	if f.CenterID, err = helper.ParseUUIDQuery(c, "center_id"); err != nil {
		return helper.FromServiceError(c, err)
	}
	return ctl.list(c, f)
}

func (ctl *ReservationController) list(c *fiber.Ctx, f service.ListFilter) error {
	p := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := service.ListReservations(c.Context(), ctl.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "Reservations fetched", dto.FromViews(rows), helper.BuildPagination(total, p, len(rows)))
}

func parseListFilter(c *fiber.Ctx) (service.ListFilter, error) {
	var f service.ListFilter
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st, err := model.ParseReservationStatus(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		f.Status = &st
	}
	if d := strings.TrimSpace(c.Query("date")); d != "" {
		day, err := dbtime.ParseDate(d, dbtime.CenterLocation())
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, to := dbtime.DayRange(day)
		f.From, f.To = &from, &to
	}
	return f, nil
}

/* =========================================================
   TRANSITIONS
========================================================= */

// POST /reservations/:id/cancel
// Student hanya boleh membatalkan reservasinya sendiri.
func (ctl *ReservationController) Cancel(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.ensureOwnerOrStaff(c, id); err != nil {
		return helper.FromServiceError(c, err)
	}

	r, err := service.Cancel(c.Context(), ctl.DB, id, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Reservation cancelled", dto.FromModel(r))
}

// POST /api/a/reservations/:id/complete
func (ctl *ReservationController) Complete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	r, err := service.Complete(c.Context(), ctl.DB, id, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Reservation completed", dto.FromModel(r))
}

// POST /api/a/reservations/sweep
func (ctl *ReservationController) Sweep(c *fiber.Ctx) error {
	n, err := service.CompleteElapsed(c.Context(), ctl.DB, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	log.Printf("[SWEEP] manual sweep completed %d reservation(s)", n)
	return helper.JsonOK(c, "Sweep finished", fiber.Map{"completed": n})
}

// GET /reservations/:id
func (ctl *ReservationController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.ensureOwnerOrStaff(c, id); err != nil {
		return helper.FromServiceError(c, err)
	}
	r, err := service.GetReservation(c.Context(), ctl.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Reservation fetched", dto.FromModel(r))
}

func (ctl *ReservationController) ensureOwnerOrStaff(c *fiber.Ctx, reservationID uuid.UUID) error {
	r, err := service.GetReservation(c.Context(), ctl.DB, reservationID)
	if err != nil {
		return err
	}
	return helper.EnsureSelfOrStaff(c, r.ReservationStudentID)
}
