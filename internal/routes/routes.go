package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lectoria/lectoria/internal/config"
	"github.com/lectoria/lectoria/internal/course"
	"github.com/lectoria/lectoria/internal/mail"
	"github.com/lectoria/lectoria/internal/media"
	"github.com/lectoria/lectoria/internal/middleware"
	"github.com/lectoria/lectoria/internal/payment"
	"github.com/lectoria/lectoria/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Media  media.Storage
	Mailer mail.Mailer
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}
	var courseRepo course.Repository
	if d.DB != nil {
		courseRepo = course.NewPostgresRepository(d.DB)
	} else {
		courseRepo = course.NewMemoryRepository()
	}

	// Services and handlers
	userSvc := user.NewService(userRepo, d.Media, d.Mailer, d.Cfg, d.Logger)
	userHandler := user.NewHandler(userSvc, d.Cfg, d.Logger)
	courseSvc := course.NewService(courseRepo, d.Media, d.Logger)
	courseHandler := course.NewHandler(courseSvc, d.Logger)
	paymentSvc := payment.NewService(payment.NewStubProvider(d.Cfg.AppName), userRepo)
	paymentHandler := payment.NewHandler(paymentSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Gates shared across route groups. Extraction and verification always
	// run before role or entitlement checks.
	requireAuth := middleware.RequireAuth(d.Cfg)
	adminOnly := middleware.RequireRoles(user.RoleAdmin)
	subscribersOnly := middleware.RequireSubscriber(userRepo)
	loginLimiter := middleware.LoginRateLimit(d.Cache, 5)

	RegisterUserRoutes(api, userHandler, requireAuth, loginLimiter)
	RegisterCourseRoutes(api, courseHandler, requireAuth, adminOnly, subscribersOnly)
	RegisterPaymentRoutes(api, paymentHandler, requireAuth, adminOnly, subscribersOnly)
	RegisterMiscRoutes(api, d, userRepo, requireAuth, adminOnly)

	return nil
}
