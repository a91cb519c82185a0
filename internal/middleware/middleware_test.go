package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/config"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.Config{JWTSecret: "test-secret", AdminToken: "static-token"}

func newTestApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected", h, func(c *fiber.Ctx) error {
		return c.SendString(tenant.GetRole(c))
	})
	return app
}

func signedToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": "admin",
		"exp":  exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTProtected(t *testing.T) {
	app := newTestApp(JWTProtected(testConfig))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing token", want: fiber.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signedToken(t, "other", time.Now().Add(time.Hour)), want: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signedToken(t, testConfig.JWTSecret, time.Now().Add(-time.Minute)), want: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + signedToken(t, testConfig.JWTSecret, time.Now().Add(time.Hour)), want: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminRequired_StaticToken(t *testing.T) {
	app := newTestApp(AdminRequired(nil, testConfig))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Admin-Token", "static-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-Admin-Token", "guess")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "https://painel.example.com"}))
	app.Put("/api/admin/reports/:id/replies/:replyId", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("OPTIONS", "/api/admin/reports/1/replies/2", nil)
	req.Header.Set("Origin", "https://painel.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "X-Admin-Token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://painel.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Admin-Token")
	assert.NotContains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))

	req = httptest.NewRequest("PUT", "/api/admin/reports/1/replies/2", nil)
	req.Header.Set("Origin", "https://painel.example.com")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "X-Request-ID", resp.Header.Get("Access-Control-Expose-Headers"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}
