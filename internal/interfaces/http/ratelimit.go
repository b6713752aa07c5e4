package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/yeye/icms-api/internal/application/dto"
)

// RateLimitAuth limita login y signin a max peticiones por minuto e IP. max <= 0 lo desactiva.
func RateLimitAuth(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "TOO_MANY_REQUESTS", Message: "demasiados intentos, espere un minuto",
			})
		},
	})
}
