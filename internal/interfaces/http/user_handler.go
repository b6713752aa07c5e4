package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yeye/icms-api/internal/application/auth"
	"github.com/yeye/icms-api/internal/application/dto"
	"github.com/yeye/icms-api/pkg/logger"
)

// UserHandler maneja registro, login, signin de asistencia, usuario actual y logout.
type UserHandler struct {
	uc       *auth.AuthUseCase
	sessions *Sessions
	log      *logger.Logger
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *auth.AuthUseCase, sessions *Sessions, log *logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, sessions: sessions, log: log.Component("http.user")}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, password, checkPassword, faceEmbedding"
// @Success      200   {integer}  int64  "ID del nuevo usuario"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /user/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(id)
}

// Login godoc
// @Summary      Iniciar sesión con contraseña y rostro
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password, faceEmbedding"
// @Success      200   {object}  dto.SafetyUser
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(user)
}

// Signin godoc
// @Summary      Registrar asistencia por reconocimiento facial
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "username, faceImage"
// @Success      200   {object}  dto.SafetyUser
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /user/signin [post]
func (h *UserHandler) Signin(c *fiber.Ctx) error {
	var in dto.SigninRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	user, err := h.uc.Signin(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.sessions.Login(c, user.ID); err != nil {
		// La asistencia ya quedó registrada.
		h.log.Error().Err(err).Int64("user_id", user.ID).Msg("signin sin sesión")
	}
	return c.JSON(user)
}

// Current godoc
// @Summary      Usuario de la sesión actual
// @Tags         user
// @Produce      json
// @Success      200   {object}  dto.SafetyUser  "null si no hay sesión"
// @Router       /user/current [get]
func (h *UserHandler) Current(c *fiber.Ctx) error {
	id, ok := GetUserID(c)
	if !ok {
		return c.JSON(nil)
	}
	user, err := h.uc.CurrentUser(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(user)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         user
// @Produce      json
// @Success      200   {object}  dto.LogoutResponse
// @Failure      500   {object}  dto.LogoutResponse
// @Router       /user/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		h.log.Error().Err(err).Msg("logout")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.LogoutResponse{Code: 500, Message: "no se pudo cerrar la sesión"})
	}
	return c.JSON(dto.LogoutResponse{Code: 0, Message: "sesión cerrada"})
}
