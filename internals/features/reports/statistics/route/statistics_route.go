package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/features/reports/statistics/controller"
)

// Mount: StatisticsUserRoutes(app.Group("/api/u"), db)
func StatisticsUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStatisticsController(db)
	r.Get("/statistics/me", ctl.MyStudentStatistics)
}

// Mount: StatisticsTeacherRoutes(app.Group("/api/t"), db)
func StatisticsTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStatisticsController(db)
	r.Get("/statistics/me", ctl.MyTeacherStatistics)
}

// Mount: ReportAdminRoutes(app.Group("/api/a"), db)
func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStatisticsController(db)

	g := r.Group("/reports")
	g.Get("/students/:id", ctl.StudentStatistics)
	g.Get("/teachers/:id", ctl.TeacherStatistics)
	g.Get("/classes/:id/occupancy", ctl.ClassOccupancy)
	g.Get("/occupancy", ctl.CenterOccupancy)
	g.Get("/financial", ctl.Financial)
	g.Get("/attendance", ctl.Attendance)
}
