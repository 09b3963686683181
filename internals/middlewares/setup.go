package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"yogacenter_backend/internals/middlewares/logger"
)

// SetupMiddlewares: middleware global yang dipasang sebelum routes.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
