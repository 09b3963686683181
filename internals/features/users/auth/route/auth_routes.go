// file: internals/features/users/auth/route/auth_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "yogacenter_backend/internals/features/users/auth/controller"
	rateLimiter "yogacenter_backend/internals/middlewares"
	authMiddleware "yogacenter_backend/internals/middlewares/auth"
)

// Base: /api/auth
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)

	// 🔐 Protected
	protected := baseAuth.Group("", authMiddleware.AuthMiddleware(db))
	protected.Post("/logout", authController.Logout)
	protected.Get("/me", authController.Me)
	protected.Post("/change-password", authController.ChangePassword)
}
