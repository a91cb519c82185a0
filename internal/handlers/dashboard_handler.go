package handlers

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	loc              *time.Location
}

func NewDashboardHandler(dashboardService *services.DashboardService, loc *time.Location) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, loc: loc}
}

func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.Overview(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(overview)
}

// Monthly defaults to the current year in the portal time zone.
func (h *DashboardHandler) Monthly(c *fiber.Ctx) error {
	year := time.Now().In(h.loc).Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 9999 {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid year")
		}
		year = y
	}

	chart, err := h.dashboardService.Monthly(c.UserContext(), year)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(chart)
}

func (h *DashboardHandler) Heatmap(c *fiber.Ctx) error {
	heatmap, err := h.dashboardService.Heatmap(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(heatmap)
}
