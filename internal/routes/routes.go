package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Report    *handlers.ReportHandler
	Reply     *handlers.ReplyHandler
	Company   *handlers.CompanyHandler
	Contact   *handlers.ContactHandler
	Admin     *handlers.AdminHandler
	Dashboard *handlers.DashboardHandler
}

func perIPLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(perIPLimiter(60))

	api.Get("/health", h.Health.Check)

	// Public reporter surface
	api.Get("/companies/search", h.Company.Search)
	api.Post("/reports", perIPLimiter(5), h.Report.Create)
	api.Get("/reports/protocol/:protocol", h.Report.Lookup)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(perIPLimiter(10))
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	// Admin panel (JWT of an existing admin, or X-Admin-Token)
	admin := api.Group("/admin", middleware.AdminRequired(db, cfg))
	admin.Get("/me", h.Auth.Me)

	admin.Get("/dashboard", h.Dashboard.Overview)
	admin.Get("/dashboard/monthly", h.Dashboard.Monthly)
	admin.Get("/dashboard/heatmap", h.Dashboard.Heatmap)

	admin.Get("/reports", h.Report.List)
	admin.Get("/reports/:id", h.Report.Get)
	admin.Put("/reports/:id/status", h.Report.UpdateStatus)
	admin.Delete("/reports/:id", h.Report.Delete)

	admin.Get("/reports/:id/replies", h.Reply.List)
	admin.Post("/reports/:id/replies", h.Reply.Add)
	admin.Put("/reports/:id/replies/:replyId", h.Reply.Edit)
	admin.Delete("/reports/:id/replies/:replyId", h.Reply.Delete)

	admin.Get("/companies", h.Company.List)
	admin.Post("/companies", h.Company.Create)
	admin.Get("/companies/:id", h.Company.Get)
	admin.Put("/companies/:id", h.Company.Update)
	admin.Delete("/companies/:id", h.Company.Delete)

	admin.Get("/contacts", h.Contact.List)
	admin.Post("/contacts", h.Contact.Create)
	admin.Get("/contacts/:id", h.Contact.Get)
	admin.Put("/contacts/:id", h.Contact.Update)
	admin.Delete("/contacts/:id", h.Contact.Delete)

	admin.Get("/admins", h.Admin.List)
	admin.Post("/admins", h.Admin.Create)
	admin.Get("/admins/:id", h.Admin.Get)
	admin.Put("/admins/:id", h.Admin.Update)
	admin.Delete("/admins/:id", h.Admin.Delete)
}
