package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reservationController "yogacenter_backend/internals/features/classes/reservations/controller"
)

// Mount: ReservationUserRoutes(app.Group("/api/u"), db)
// - POST /reservations
// - GET  /reservations/me
// - GET  /reservations/:id
// - POST /reservations/:id/cancel
func ReservationUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reservationController.NewReservationController(db)

	g := r.Group("/reservations")
	g.Post("/", ctl.Create)
	g.Get("/me", ctl.MyReservations)
	g.Get("/:id", ctl.Detail)
	g.Post("/:id/cancel", ctl.Cancel)
}

// Mount: ReservationAdminRoutes(app.Group("/api/a"), db), role staff dicek di group.
func ReservationAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := reservationController.NewReservationController(db)

	g := r.Group("/reservations")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Post("/sweep", ctl.Sweep)
	g.Get("/:id", ctl.Detail)
	g.Post("/:id/cancel", ctl.Cancel)
	g.Post("/:id/complete", ctl.Complete)
}
