package handlers

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	var companyID uuid.UUID
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid company_id")
		}
		companyID = id
	}

	contacts, total, err := h.contactService.List(c.UserContext(), companyID, c.Query("q"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"contacts": contacts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid contact ID")
	}

	contact, err := h.contactService.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(contact)
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	contact, err := h.contactService.Create(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid contact ID")
	}

	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	contact, err := h.contactService.Update(c.UserContext(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(contact)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid contact ID")
	}

	if err := h.contactService.Delete(c.UserContext(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}
