package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// sessionUserKey atributo de sesión con el ID del usuario logueado.
// Solo se guarda el ID; la vista pública se resuelve de nuevo en cada lectura.
const sessionUserKey = "uid"

// SessionConfig parámetros de la cookie de sesión.
type SessionConfig struct {
	CookieName string
	Expiration time.Duration
	Secure     bool
}

// Sessions estado de login por cookie sobre el store de sesiones de Fiber.
type Sessions struct {
	store      *session.Store
	cookieName string
}

// NewSessions construye el store en memoria del proceso.
func NewSessions(cfg SessionConfig) *Sessions {
	store := session.New(session.Config{
		Expiration:     cfg.Expiration,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
	})
	return &Sessions{store: store, cookieName: cfg.CookieName}
}

// Login fija el usuario en una sesión con ID nuevo.
func (s *Sessions) Login(c *fiber.Ctx, userID int64) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("obtener sesión: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerar sesión: %w", err)
	}
	sess.Set(sessionUserKey, userID)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// UserID devuelve el usuario de la sesión actual, si hay uno.
func (s *Sessions) UserID(c *fiber.Ctx) (int64, bool, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return 0, false, fmt.Errorf("obtener sesión: %w", err)
	}
	id, ok := sess.Get(sessionUserKey).(int64)
	return id, ok, nil
}

// Logout destruye la sesión y expira la cookie. Sin sesión activa no hace nada distinto.
func (s *Sessions) Logout(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return fmt.Errorf("obtener sesión: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("destruir sesión: %w", err)
	}
	c.ClearCookie(s.cookieName)
	return nil
}
