package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"yogacenter_backend/internals/constants"
	userController "yogacenter_backend/internals/features/users/users/controller"
	authMiddleware "yogacenter_backend/internals/middlewares/auth"
)

// Mount: UserUserRoutes(app.Group("/api/u"), db)
func UserUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewAdminUserController(db)
	r.Patch("/users/me", ctl.UpdateMe)
}

// Mount: UserAdminRoutes(app.Group("/api/a"), db)  (staff)
func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := userController.NewAdminUserController(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("user management"), constants.AdminOnly...)

	g := r.Group("/users")
	g.Get("/", ctl.ListUsers)
	g.Post("/", ctl.CreateUser)
	g.Get("/:id", ctl.GetUser)
	g.Get("/:id/centers", ctl.UserCenters)
	g.Patch("/:id", adminOnly, ctl.UpdateUser)
	g.Delete("/:id", adminOnly, ctl.DeleteUser)
	g.Patch("/:id/role", adminOnly, ctl.ChangeRole)
	g.Post("/:id/activate", adminOnly, ctl.Activate)
	g.Post("/:id/deactivate", adminOnly, ctl.Deactivate)
}
