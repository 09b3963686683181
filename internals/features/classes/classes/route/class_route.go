package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "yogacenter_backend/internals/features/classes/classes/controller"
)

// Mount: ClassUserRoutes(app.Group("/api/u"), db)
func ClassUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classController.NewClassController(db)

	g := r.Group("/classes")
	g.Get("/", ctl.List)
	g.Get("/available", ctl.Available)
	g.Get("/upcoming", ctl.Upcoming)
	g.Get("/:id", ctl.Detail)
}

// Mount: ClassTeacherRoutes(app.Group("/api/t"), db)
func ClassTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classController.NewClassController(db)

	g := r.Group("/classes")
	g.Get("/me", ctl.MyClasses)
	g.Get("/upcoming", ctl.Upcoming)
}

// Mount: ClassAdminRoutes(app.Group("/api/a"), db)
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classController.NewClassController(db)

	g := r.Group("/classes")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/available", ctl.Available)
	g.Get("/upcoming", ctl.Upcoming)
	g.Get("/:id", ctl.Detail)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
