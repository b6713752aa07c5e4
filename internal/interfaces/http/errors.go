package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/internal/domain"
	"github.com/yeye/icms-api/pkg/logger"
)

type errorMapping struct {
	sentinel error
	status   int
	code     string
	detail   bool // incluir err.Error() en lugar del mensaje genérico
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", true},
	{domain.ErrPasswordMismatch, fiber.StatusBadRequest, "PASSWORD_MISMATCH", false},
	{domain.ErrUsernameTaken, fiber.StatusConflict, "USERNAME_TAKEN", false},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", false},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "USER_NOT_FOUND", false},
	{domain.ErrFaceNotEnrolled, fiber.StatusUnauthorized, "FACE_NOT_ENROLLED", false},
	{domain.ErrFaceMismatch, fiber.StatusUnauthorized, "FACE_MISMATCH", false},
	{domain.ErrFaceServiceUnavailable, fiber.StatusUnauthorized, "FACE_SERVICE_UNAVAILABLE", false},
}

// writeError traduce errores de dominio a status + dto.ErrorResponse.
// Lo no reconocido es 500 con mensaje genérico y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			msg := m.sentinel.Error()
			if m.detail {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
