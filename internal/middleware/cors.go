package middleware

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS lets the public report form and the admin panel call the API from
// the origins in CORS_ORIGINS. Admin requests authenticate by header, never
// by cookie. X-Request-ID is exposed so the panel can quote it.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Admin-Token, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: false,
		MaxAge:           600,
	})
}
