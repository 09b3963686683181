package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "yogacenter_backend/internals/features/finance/payments/controller"
)

/*
User routes (mount di /api/u):
- POST /reservations/reserve-and-pay
- GET  /payments/me
- GET  /payments/:id
- POST /payments/:id/checkout
*/
func PaymentUserRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	ctl := paymentController.NewPaymentController(db, midtransServerKey)

	r.Post("/reservations/reserve-and-pay", ctl.ReserveAndPay)

	pay := r.Group("/payments")
	pay.Get("/me", ctl.MyPayments)
	pay.Get("/:id", ctl.GetPaymentByID)
	pay.Post("/:id/checkout", ctl.Checkout)
}

// Admin routes (mount di /api/a, guard staff di group)
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	ctl := paymentController.NewPaymentController(db, midtransServerKey)

	r.Post("/reservations/reserve-and-pay", ctl.ReserveAndPay)

	pay := r.Group("/payments")
	pay.Get("/", ctl.ListPayments)
	pay.Post("/", ctl.CreatePayment)
	pay.Get("/:id", ctl.GetPaymentByID)
	pay.Patch("/:id/status", ctl.UpdateStatus)
	pay.Get("/:id/split", ctl.Split)
	pay.Post("/:id/checkout", ctl.Checkout)
}

// Public: notifikasi Midtrans (tanpa JWT, diverifikasi lewat signature)
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	ctl := paymentController.NewPaymentController(db, midtransServerKey)
	r.Post("/payments/notification", ctl.MidtransWebhook)
}
