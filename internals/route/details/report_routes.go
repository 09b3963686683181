package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	statisticsRoute "yogacenter_backend/internals/features/reports/statistics/route"
)

func ReportUserRoutes(r fiber.Router, db *gorm.DB) {
	statisticsRoute.StatisticsUserRoutes(r, db)
}

func ReportTeacherRoutes(r fiber.Router, db *gorm.DB) {
	statisticsRoute.StatisticsTeacherRoutes(r, db)
}

func ReportAdminRoutes(r fiber.Router, db *gorm.DB) {
	statisticsRoute.ReportAdminRoutes(r, db)
}
