package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/cache"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/logging"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/repository"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/routes"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	loc := cfg.Location()

	// Dashboard cache
	var dashboardCache cache.Cache = cache.Noop{}
	var cachePinger handlers.Pinger
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			dashboardCache = redisCache
			cachePinger = redisCache
			slog.Info("dashboard cache enabled", "ttl", cfg.DashboardCacheTTL.String())
		}
	}

	// Attachment storage
	var files storage.FileStore
	if cfg.FTPHost != "" {
		files = storage.NewFTPStore(cfg.FTPHost, cfg.FTPPort, cfg.FTPUser, cfg.FTPPassword, cfg.FTPBaseURL)
		slog.Info("attachment storage: ftp", "host", cfg.FTPHost)
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			slog.Error("failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		files = local
		slog.Info("attachment storage: local", "dir", cfg.UploadDir)
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	adminService := services.NewAdminService(database.DB)
	companyService := services.NewCompanyService(database.DB)
	contactService := services.NewContactService(database.DB)
	reportService := services.NewReportService(database.DB, files, cfg.MaxAttachmentBytes, loc)
	replyService := services.NewReplyService(repository.NewReplyStore(database.DB), loc)
	dashboardService := services.NewDashboardService(database.DB, dashboardCache, cfg.DashboardCacheTTL, loc)

	// Handlers
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, adminService),
		Health:    handlers.NewHealthHandler(cachePinger),
		Report:    handlers.NewReportHandler(reportService),
		Reply:     handlers.NewReplyHandler(replyService),
		Company:   handlers.NewCompanyHandler(companyService),
		Contact:   handlers.NewContactHandler(contactService),
		Admin:     handlers.NewAdminHandler(adminService),
		Dashboard: handlers.NewDashboardHandler(dashboardService, loc),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; multipart bodies carry several attachments
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxAttachmentBytes)*5 + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	if cfg.FTPHost == "" && strings.HasPrefix(cfg.UploadBaseURL, "/") {
		app.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	routes.Setup(app, cfg, database.DB, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "timezone", loc.String())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := files.Close(); err != nil {
		slog.Error("file store close error", "error", err)
	}
	if err := dashboardCache.Close(); err != nil {
		slog.Error("cache close error", "error", err)
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
