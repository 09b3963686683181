package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "yogacenter_backend/internals/features/classes/attendances/route"
	classRoute "yogacenter_backend/internals/features/classes/classes/route"
	reservationRoute "yogacenter_backend/internals/features/classes/reservations/route"
)

func ClassUserRoutes(r fiber.Router, db *gorm.DB) {
	classRoute.ClassUserRoutes(r, db)
	reservationRoute.ReservationUserRoutes(r, db)
	attendanceRoute.AttendanceUserRoutes(r, db)
}

func ClassTeacherRoutes(r fiber.Router, db *gorm.DB) {
	classRoute.ClassTeacherRoutes(r, db)
	attendanceRoute.AttendanceTeacherRoutes(r, db)
}

func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	classRoute.ClassAdminRoutes(r, db)
	reservationRoute.ReservationAdminRoutes(r, db)
	attendanceRoute.AttendanceAdminRoutes(r, db)
}
