package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	centerController "yogacenter_backend/internals/features/centers/centers/controller"
	authMiddleware "yogacenter_backend/internals/middlewares/auth"
)

// Public: daftar center untuk form registrasi
func CenterPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := centerController.NewCenterController(db)
	r.Get("/centers", ctl.List)
}

// Mount: CenterAdminRoutes(app.Group("/api/a"), db). Write hanya ADMINISTRATOR.
func CenterAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := centerController.NewCenterController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("center management"), constants.AdminOnly...)

	g := r.Group("/centers")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Detail)
	g.Get("/:id/users", ctl.Users)
	g.Post("/:id/users", ctl.AssignUser)
	g.Delete("/:id/users/:user_id", ctl.UnassignUser)

	g.Post("/", adminOnly, ctl.Create)
	g.Patch("/:id", adminOnly, ctl.Update)
	g.Delete("/:id", adminOnly, ctl.Delete)
}
