package handlers

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ReplyHandler serves the reply thread of a report. Every write must carry
// the version returned by the previous read; a stale version gets 409.
type ReplyHandler struct {
	replyService *services.ReplyService
}

func NewReplyHandler(replyService *services.ReplyService) *ReplyHandler {
	return &ReplyHandler{replyService: replyService}
}

func (h *ReplyHandler) List(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	thread, err := h.replyService.ListReplies(c.UserContext(), reportID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thread)
}

func (h *ReplyHandler) Add(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.AddReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := services.Validate(req); err != nil {
		return serviceError(c, err)
	}

	thread, err := h.replyService.AddReply(c.UserContext(), reportID, actor(c).ID, req.Text, req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

func (h *ReplyHandler) Edit(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.EditReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := services.Validate(req); err != nil {
		return serviceError(c, err)
	}

	thread, err := h.replyService.EditReply(c.UserContext(), reportID, actor(c).ID, c.Params("replyId"), req.Text, req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thread)
}

// Delete reads the version from the query string, or from the body for
// clients that send one with DELETE.
func (h *ReplyHandler) Delete(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.DeleteReplyRequest
	if err := c.QueryParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid version")
	}
	if req.Version == 0 && len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := services.Validate(req); err != nil {
		return serviceError(c, err)
	}

	thread, err := h.replyService.DeleteReply(c.UserContext(), reportID, c.Params("replyId"), req.Version)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thread)
}
