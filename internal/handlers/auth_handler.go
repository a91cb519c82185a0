package handlers

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService  *services.AuthService
	adminService *services.AdminService
}

func NewAuthHandler(authService *services.AuthService, adminService *services.AdminService) *AuthHandler {
	return &AuthHandler{authService: authService, adminService: adminService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to logout")
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the authenticated admin. Static token requests get a synthetic
// master profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a := actor(c)
	if a.ID == uuid.Nil {
		return c.JSON(dto.AdminResponse{Name: "system", Role: models.RoleMaster})
	}

	admin, err := h.adminService.Get(c.UserContext(), a.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(services.ToAdminResponse(admin))
}
