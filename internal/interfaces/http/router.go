package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/yeye/icms-api/internal/application/attendance"
	"github.com/yeye/icms-api/internal/application/auth"
	"github.com/yeye/icms-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	AttendanceUC   *attendance.AttendanceUseCase
	Sessions       *Sessions
	AllowedOrigins []string
	AuthRateLimit  int
	Log            *logger.Logger
}

// Router registra CORS y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(deps.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	// Usuario (público; el estado de login viaja en la cookie de sesión)
	users := app.Group("/user", SessionUser(deps.Sessions, deps.Log))
	userHandler := NewUserHandler(deps.AuthUC, deps.Sessions, deps.Log)
	users.Post("/register", userHandler.Register)
	users.Post("/login", RateLimitAuth(deps.AuthRateLimit), userHandler.Login)
	users.Post("/signin", RateLimitAuth(deps.AuthRateLimit), userHandler.Signin)
	users.Get("/current", userHandler.Current)
	users.Post("/logout", userHandler.Logout)

	// Asistencia
	records := app.Group("/attendance")
	attendanceHandler := NewAttendanceHandler(deps.AttendanceUC, deps.Log)
	records.Get("/records", attendanceHandler.Records)
	records.Get("/records/pdf", attendanceHandler.RecordsPDF)
}
