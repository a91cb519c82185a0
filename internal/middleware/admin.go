package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/tenant"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired accepts either:
// 1. the X-Admin-Token header, acting as a master with no admin id
// 2. an access token whose subject is an existing admin
//
// The admin's current role is stored in Locals("admin_role") so role changes
// apply before the token expires.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: unauthorized,
		SuccessHandler: func(c *fiber.Ctx) error {
			adminID, err := tenant.GetAdminID(c)
			if err != nil {
				return unauthorized(c, err)
			}

			var admin models.Admin
			if err := db.WithContext(c.UserContext()).Select("id", "role").First(&admin, "id = ?", adminID).Error; err != nil {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Admin access required",
				})
			}

			c.Locals("admin_role", admin.Role)
			return c.Next()
		},
	})

	return func(c *fiber.Ctx) error {
		if token := c.Get("X-Admin-Token"); cfg.AdminToken != "" && token != "" {
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.AdminToken)) == 1 {
				c.Locals("admin_role", models.RoleMaster)
				return c.Next()
			}
		}
		return verify(c)
	}
}
