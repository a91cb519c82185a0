package handlers

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.adminService.List(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}

	resp := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		resp = append(resp, services.ToAdminResponse(&admins[i]))
	}
	return c.JSON(fiber.Map{"admins": resp, "total": len(resp)})
}

func (h *AdminHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	admin, err := h.adminService.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(services.ToAdminResponse(admin))
}

func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	admin, err := h.adminService.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(services.ToAdminResponse(admin))
}

func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	var req dto.UpdateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	admin, err := h.adminService.Update(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(services.ToAdminResponse(admin))
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid admin ID")
	}

	if err := h.adminService.Delete(c.UserContext(), actor(c), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Admin deleted"})
}
