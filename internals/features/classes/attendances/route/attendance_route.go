package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "yogacenter_backend/internals/features/classes/attendances/controller"
)

// Mount: AttendanceUserRoutes(app.Group("/api/u"), db)
func AttendanceUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceController.NewAttendanceController(db)
	r.Get("/attendances/me", ctl.MyAttendances)
}

// Mount: AttendanceTeacherRoutes(app.Group("/api/t"), db). Hanya kelas milik teacher.
func AttendanceTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceController.NewAttendanceController(db)

	g := r.Group("/classes/:id/attendances")
	g.Get("/", ctl.Roster)
	g.Post("/", ctl.Mark)
	g.Post("/bulk", ctl.Bulk)
}

// Mount: AttendanceAdminRoutes(app.Group("/api/a"), db)
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceController.NewAttendanceController(db)

	r.Get("/attendances", ctl.List)

	g := r.Group("/classes/:id/attendances")
	g.Get("/", ctl.Roster)
	g.Post("/", ctl.Mark)
	g.Post("/bulk", ctl.Bulk)
}
