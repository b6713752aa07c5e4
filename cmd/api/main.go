package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/yeye/icms-api/internal/application/attendance"
	"github.com/yeye/icms-api/internal/application/auth"
	"github.com/yeye/icms-api/internal/application/ports"
	"github.com/yeye/icms-api/internal/domain/repository"
	"github.com/yeye/icms-api/internal/infrastructure/face"
	"github.com/yeye/icms-api/internal/infrastructure/memory"
	"github.com/yeye/icms-api/internal/infrastructure/messaging"
	infrapdf "github.com/yeye/icms-api/internal/infrastructure/pdf"
	"github.com/yeye/icms-api/internal/infrastructure/postgres"
	"github.com/yeye/icms-api/internal/infrastructure/security"
	"github.com/yeye/icms-api/internal/infrastructure/storage"
	httpRouter "github.com/yeye/icms-api/internal/interfaces/http"
	"github.com/yeye/icms-api/pkg/config"
	"github.com/yeye/icms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		userRepo repository.UserRepository
		logRepo  repository.AttendanceLogRepository
	)
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		userRepo = memory.NewUserRepository()
		logRepo = memory.NewAttendanceLogRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		userRepo = postgres.NewUserRepository(pool)
		logRepo = postgres.NewAttendanceLogRepository(pool)
	}

	// Capturas de signin: S3 si hay bucket, si no solo se guardan referencias externas.
	var snapshots ports.SnapshotStore = storage.PassthroughStore{}
	if cfg.Snapshot.Enabled() {
		s3Store, err := storage.NewS3SnapshotStore(ctx, cfg.Snapshot)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3 de capturas")
		}
		snapshots = s3Store
		log.Info().Str("bucket", cfg.Snapshot.Bucket).Msg("capturas en S3")
	}

	// Eventos de asistencia: RabbitMQ si hay URL.
	var events ports.AttendancePublisher = messaging.NopPublisher{}
	if cfg.AMQP.Enabled() {
		publisher, err := messaging.NewRabbitPublisher(cfg.AMQP.URL, cfg.AMQP.AttendanceQueue, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error().Err(err).Msg("cierre de RabbitMQ")
			}
		}()
		events = publisher
	}

	faceClient := face.NewCompareClient(cfg.Face.CompareURL, cfg.Face.Timeout)
	codec := security.NewBcryptCodec(cfg.Security.BcryptCost)
	authUC := auth.NewAuthUseCase(userRepo, logRepo, codec, faceClient, snapshots, events, log)
	attendanceUC := attendance.NewAttendanceUseCase(userRepo, logRepo,
		infrapdf.NewAttendanceReportRenderer("Registro de asistencia", time.Local), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    8 * 1024 * 1024, // capturas faciales en base64
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Face.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.SwaggerPath,
			Path:     "docs",
			Title:    "ICMS API",
		}))
	} else {
		log.Warn().Str("path", cfg.Docs.SwaggerPath).Msg("documento OpenAPI no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		AttendanceUC: attendanceUC,
		Sessions: httpRouter.NewSessions(httpRouter.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Expiration: cfg.Session.Expiration,
			Secure:     cfg.Session.CookieSecure,
		}),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
