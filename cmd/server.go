package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/config"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/logx"
)

func main() {
	// 1. Initialize Logger
	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case "debug":
		logx.SetLevel(logx.LevelDebug)
	case "warn":
		logx.SetLevel(logx.LevelWarn)
	case "error":
		logx.SetLevel(logx.LevelError)
	default:
		logx.SetLevel(logx.LevelInfo)
	}

	logx.Info("🚀 Starting Translate App API Server...")

	ctx := context.Background()

	// 2. Load Configuration (env, optionally overlaid from SSM)
	cfg, err := config.LoadWithSSM(ctx)
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 3. Initialize Dependency Container
	container := NewContainer(ctx, cfg)
	defer container.Cleanup()

	// 4. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "Translate App API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	// 5. Global Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Site-Id, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		AllowCredentials: cfg.CORS.AllowCredentials,
		ExposeHeaders:    "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	// 6. Health Check & Info Endpoints
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/docs", apiDocsHandler(cfg))

	// 7. Register Routes
	api := app.Group(cfg.Server.APIRootPath)

	// ========================================================================
	// Authentication & Session Routes
	// ========================================================================
	// Routes: /api/auth/sign-in, /api/auth/refresh, /api/auth/logout/*, ...
	container.AuthHandler.RegisterRoutes(api)
	logx.Info("✓ Auth routes registered")

	// ========================================================================
	// Payments (Plans) Routes
	// ========================================================================
	container.PaymentsHandler.RegisterRoutes(api)
	logx.Info("✓ Payments routes registered")

	// ========================================================================
	// Simplify (Personalization) Routes
	// ========================================================================
	container.SimplifyHandler.RegisterRoutes(api)
	logx.Info("✓ Simplify routes registered")

	// ========================================================================
	// Chat Relay Routes (widget surface)
	// ========================================================================
	container.ChatHandler.RegisterRoutes(api)
	logx.Info("✓ Chat routes registered")

	// 8. 404 Handler
	app.Use(notFoundHandler)

	// 9. Background Services
	container.StartBackgroundServices(ctx)

	// 10. Start Server with Graceful Shutdown
	startServer(app, cfg)
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler reports the service and its dependencies.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":  "healthy",
			"service": "translate-app-api",
			"version": container.Config.Server.AppVersion,
		}

		if err := container.DB.PingContext(c.UserContext()); err != nil {
			health["db"] = "unhealthy"
			health["status"] = "degraded"
		} else {
			health["db"] = "healthy"
		}

		if err := container.Redis.Ping(c.UserContext()).Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
		} else {
			health["redis"] = "healthy"
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(health)
	}
}

// infoHandler returns basic API information
func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "Translate App API",
			"version":     cfg.Server.AppVersion,
			"environment": string(cfg.Environment),
			"endpoints": fiber.Map{
				"health": "/health",
				"api":    cfg.Server.APIRootPath,
			},
		})
	}
}

// apiDocsHandler returns a compact endpoint listing
func apiDocsHandler(cfg *config.Config) fiber.Handler {
	root := cfg.Server.APIRootPath
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"base_url": root,
			"endpoints": fiber.Map{
				"auth": fiber.Map{
					"sign_in":         "POST " + root + "/auth/sign-in",
					"sign_in_google":  "GET " + root + "/auth/sign-in/google",
					"refresh":         "POST " + root + "/auth/refresh",
					"logout_session":  "POST " + root + "/auth/logout/session",
					"logout_all":      "POST " + root + "/auth/logout/all-devices",
					"me":              "GET " + root + "/auth/me",
					"sign_up":         "POST " + root + "/auth/sign-up",
					"forgot_password": "POST " + root + "/auth/forgot-password",
				},
				"payments": fiber.Map{
					"plans":   "GET " + root + "/payments/plans",
					"refresh": "GET " + root + "/payments/plans/refresh",
					"plan":    "GET " + root + "/payments/plans/:plan_id",
				},
				"simplify": fiber.Map{
					"profiles":  root + "/simplify/profiles",
					"overrides": root + "/simplify/website_overrides",
					"chat":      "POST " + root + "/simplify/chat/public",
				},
			},
			"authentication": fiber.Map{
				"header": "Authorization: Bearer <access token>",
				"cookie": "access_token",
			},
		})
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"detail": []errx.Detail{{
			Loc:  []string{"path", c.Path()},
			Msg:  "The requested endpoint does not exist",
			Code: "NOT_FOUND",
		}},
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler is the single point where errors become HTTP responses.
// Every error crossing this boundary is either an *errx.Error (rendered as
// {"detail": [{loc, msg, code}]} with its category's status) or something
// unexpected, which gets wrapped with a correlation reference so the raw
// error text never reaches a client.
func globalErrorHandler(c *fiber.Ctx, err error) error {
	var e *errx.Error
	if !errors.As(err, &e) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			// Router-level errors (method not allowed, body too large, ...)
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"detail": []errx.Detail{{
					Loc:  []string{"request", "general"},
					Msg:  fiberErr.Message,
					Code: "REQUEST_ERROR",
				}},
			})
		}
		e = errx.InternalWithRef(err)
	}

	status := e.HTTPStatus()
	if status >= fiber.StatusInternalServerError {
		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": c.GetRespHeader("X-Request-ID"),
		}).Errorf("Request error: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": []errx.Detail{e.Detail()},
	})
}

// ============================================================================
// Server Lifecycle
// ============================================================================

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, cfg *config.Config) {
	go func() {
		logx.Infof("🚀 Server listening on port %s", cfg.Server.Port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", cfg.Server.Port)

		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

// gracefulShutdown handles graceful server shutdown
func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("✅ Server exited successfully")
}
