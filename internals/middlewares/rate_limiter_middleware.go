package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "yogacenter_backend/internals/helpers"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(100, time.Minute, "❌ Too many requests. Please try again later.")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return ipLimiter(5, time.Minute, "❌ Too many login attempts. Please wait a moment.")
}

// Rate limiter untuk register route
func RegisterRateLimiter() fiber.Handler {
	return ipLimiter(3, 5*time.Minute, "❌ Too many registration attempts. Please wait a few minutes.")
}
