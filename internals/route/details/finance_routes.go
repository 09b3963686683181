package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentRoute "yogacenter_backend/internals/features/finance/payments/route"
)

func FinancePublicRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	paymentRoute.PaymentPublicRoutes(r, db, midtransServerKey)
}

func FinanceUserRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	paymentRoute.PaymentUserRoutes(r, db, midtransServerKey)
}

func FinanceAdminRoutes(r fiber.Router, db *gorm.DB, midtransServerKey string) {
	paymentRoute.PaymentAdminRoutes(r, db, midtransServerKey)
}
