package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	centerRoute "yogacenter_backend/internals/features/centers/centers/route"
	userRoute "yogacenter_backend/internals/features/users/users/route"
)

func UserRoutes(r fiber.Router, db *gorm.DB) {
	userRoute.UserUserRoutes(r, db)
}

func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	userRoute.UserAdminRoutes(r, db)
}

func CenterPublicRoutes(r fiber.Router, db *gorm.DB) {
	centerRoute.CenterPublicRoutes(r, db)
}

func CenterAdminRoutes(r fiber.Router, db *gorm.DB) {
	centerRoute.CenterAdminRoutes(r, db)
}
