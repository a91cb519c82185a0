// Package tenant resolves who is acting on a request and which company rows
// a query is restricted to.
package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoAdmin is returned when the request carries no admin identity, for
// example when it was authorised by the X-Admin-Token header alone.
var ErrNoAdmin = errors.New("no admin in request context")

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoAdmin
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// GetAdminID extracts the admin UUID from JWT claims in context.
func GetAdminID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := mc["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// GetRole returns the role stored by AdminRequired, falling back to the
// JWT claim.
func GetRole(c *fiber.Ctx) string {
	if role, ok := c.Locals("admin_role").(string); ok {
		return role
	}
	mc, err := claims(c)
	if err != nil {
		return ""
	}
	role, _ := mc["role"].(string)
	return role
}
