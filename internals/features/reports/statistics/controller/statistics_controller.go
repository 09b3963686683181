package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentModel "yogacenter_backend/internals/features/finance/payments/model"
	"yogacenter_backend/internals/features/reports/statistics/service"
	helper "yogacenter_backend/internals/helpers"
	"yogacenter_backend/internals/helpers/dbtime"
)

type StatisticsController struct {
	DB *gorm.DB
}

func NewStatisticsController(db *gorm.DB) *StatisticsController {
	return &StatisticsController{DB: db}
}

/* =========================================================
   SELF
========================================================= */

// GET /api/u/statistics/me
func (sc *StatisticsController) MyStudentStatistics(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	s, err := service.StudentStatistics(c.Context(), sc.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Statistics fetched", s)
}

// GET /api/t/statistics/me
func (sc *StatisticsController) MyTeacherStatistics(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	s, err := service.TeacherStatistics(c.Context(), sc.DB, id, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Statistics fetched", s)
}

/* =========================================================
   STAFF (/api/a/reports)
========================================================= */

// GET /api/a/reports/students/:id
func (sc *StatisticsController) StudentStatistics(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	s, err := service.StudentStatistics(c.Context(), sc.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Student statistics", s)
}

// GET /api/a/reports/teachers/:id
func (sc *StatisticsController) TeacherStatistics(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	s, err := service.TeacherStatistics(c.Context(), sc.DB, id, dbtime.NowUTC())
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Teacher statistics", s)
}

// GET /api/a/reports/classes/:id/occupancy
func (sc *StatisticsController) ClassOccupancy(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	o, err := service.ClassOccupancy(c.Context(), sc.DB, id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Class occupancy", o)
}

// GET /api/a/reports/occupancy?month=YYYY-MM&center_id=
func (sc *StatisticsController) CenterOccupancy(c *fiber.Ctx) error {
	loc := dbtime.CenterLocation()
	month := dbtime.NowUTC().In(loc)
	if s := strings.TrimSpace(c.Query("month")); s != "" {
		m, err := dbtime.ParseMonth(s, loc)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		month = m
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	from, to := dbtime.MonthRange(month)
	o, err := service.CenterOccupancy(c.Context(), sc.DB, centerID, from, to)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Center occupancy", fiber.Map{
		"month":     month.Format("2006-01"),
		"center_id": centerID,
		"occupancy": o,
	})
}

// GET /api/a/reports/financial?from=YYYY-MM-DD&to=YYYY-MM-DD&center_id=&status=
func (sc *StatisticsController) Financial(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	f := service.FinancialFilter{From: from, To: to, CenterID: centerID}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := paymentModel.PaymentStatus(strings.ToLower(s))
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}
	r, err := service.BuildFinancialReport(c.Context(), sc.DB, f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Financial report", r)
}

// GET /api/a/reports/attendance?from=&to=&center_id=
func (sc *StatisticsController) Attendance(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	centerID, err := helper.ParseUUIDQuery(c, "center_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	r, err := service.BuildAttendanceReport(c.Context(), sc.DB, service.AttendanceFilter{CenterID: centerID, From: from, To: to})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Attendance report", r)
}

// from/to inklusif per hari (zona center)
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	loc := dbtime.CenterLocation()
	var from, to *time.Time
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		start, _ := dbtime.DayRange(d)
		from = &start
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := dbtime.ParseDate(s, loc)
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		_, end := dbtime.DayRange(d)
		to = &end
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "from must be before to")
	}
	return from, to, nil
}
