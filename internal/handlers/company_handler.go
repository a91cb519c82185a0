package handlers

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Search backs the public report form.
func (h *CompanyHandler) Search(c *fiber.Ctx) error {
	companies, err := h.companyService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"companies": companies})
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	companies, total, err := h.companyService.List(c.UserContext(), c.Query("q"), limit, offset)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"companies": companies,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	company, err := h.companyService.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(company)
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	company, err := h.companyService.Create(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	company, err := h.companyService.Update(c.UserContext(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(company)
}

func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid company ID")
	}

	if err := h.companyService.Delete(c.UserContext(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Company deleted"})
}
