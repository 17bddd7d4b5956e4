// Package server assembles the Fiber application: middleware, API routes,
// health and metrics endpoints.
package server

import (
	"context"
	"time"

	"devcamper/internal/handlers"
	"devcamper/internal/metrics"
	"devcamper/internal/middleware"
	"devcamper/internal/ratelimit"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

const defaultBodyLimit = 4 * 1024 * 1024

// Options carries everything the application is built from. Metrics and
// Limiter are optional.
type Options struct {
	Logger *zap.Logger

	Auth      *services.AuthService
	Users     *services.UserService
	Bootcamps *services.BootcampService
	Courses   *services.CourseService
	Reviews   *services.ReviewService

	Metrics *metrics.MetricsManager
	Limiter *ratelimit.Limiter

	CookieTTL    time.Duration
	SecureCookie bool
	MaxUpload    int64
	UploadDir    string

	// Ping reports the health of the backing store.
	Ping func(ctx context.Context) error
}

// New builds the application. Nothing is listening until the caller does so.
func New(opts Options) *fiber.App {
	log := opts.Logger.Named("HTTP")

	app := fiber.New(fiber.Config{
		AppName:      "DevCamper API",
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    defaultBodyLimit + int(opts.MaxUpload),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.Error("Panic recovered", zap.String("path", c.Path()), zap.Any("panic", e), zap.Stack("stack"))
		},
	}))
	app.Use(helmet.New())
	app.Use(cors.New())
	if opts.Metrics != nil {
		app.Use(middleware.Metrics(opts.Metrics))
	}
	if opts.Limiter != nil {
		app.Use(middleware.RateLimit(opts.Limiter, opts.Metrics))
	}

	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}

	protect := middleware.Protect(opts.Auth)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(opts.Auth, opts.CookieTTL, opts.SecureCookie).RegisterRoutes(apiV1)
	handlers.NewUserHandler(opts.Users, protect).RegisterRoutes(apiV1)
	handlers.NewBootcampHandler(opts.Bootcamps, protect).RegisterRoutes(apiV1)
	handlers.NewCourseHandler(opts.Courses, protect).RegisterRoutes(apiV1)
	handlers.NewReviewHandler(opts.Reviews, protect).RegisterRoutes(apiV1)

	app.Get("/health", healthHandler(opts.Ping))
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	return app
}

func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				status, code = "unhealthy", fiber.StatusServiceUnavailable
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
