package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yeye/icms-api/pkg/logger"
)

// LocalUserID clave de c.Locals con el ID del usuario de la sesión.
const LocalUserID = "user_id"

// SessionUser carga en c.Locals el usuario de la sesión, si existe. No rechaza peticiones anónimas.
func SessionUser(sessions *Sessions, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := sessions.UserID(c)
		if err != nil {
			log.Warn().Err(err).Msg("lectura de sesión")
		} else if ok {
			c.Locals(LocalUserID, id)
		}
		return c.Next()
	}
}

// GetUserID devuelve el ID guardado por SessionUser.
func GetUserID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(LocalUserID).(int64)
	return id, ok
}
