package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxPageSize = 100

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{services.ErrValidation, fiber.StatusBadRequest},
	{services.ErrEmptyReply, fiber.StatusBadRequest},
	{services.ErrReservedMarker, fiber.StatusBadRequest},
	{services.ErrSearchTooShort, fiber.StatusBadRequest},
	{services.ErrProtocolTooShort, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrMasterUndeletable, fiber.StatusForbidden},
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrReplyNotFound, fiber.StatusNotFound},
	{services.ErrCompanyNotFound, fiber.StatusNotFound},
	{services.ErrContactNotFound, fiber.StatusNotFound},
	{services.ErrAdminNotFound, fiber.StatusNotFound},
	{services.ErrLedgerConflict, fiber.StatusConflict},
	{services.ErrInvalidTransition, fiber.StatusConflict},
	{services.ErrCNPJTaken, fiber.StatusConflict},
	{services.ErrCompanyInUse, fiber.StatusConflict},
	{services.ErrEmailTaken, fiber.StatusConflict},
}

// serviceError maps a service error to its HTTP status. Unknown errors are
// logged and answered with a generic 500.
func serviceError(c *fiber.Ctx, err error) error {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return errorJSON(c, m.status, err.Error())
		}
	}
	slog.Error("request failed",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// pagination reads limit and offset, capping limit at maxPageSize.
func pagination(c *fiber.Ctx) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// actor describes who is making an admin request. Requests authorised by
// the static admin token have no admin id.
func actor(c *fiber.Ctx) services.Actor {
	a := services.Actor{Role: tenant.GetRole(c)}
	if id, err := tenant.GetAdminID(c); err == nil {
		a.ID = id
	}
	return a
}
