package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create accepts a public report either as JSON or as a multipart form whose
// "files" field carries the attachments.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	var files []services.AttachmentFile

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid multipart form")
		}
		if err := reportFromForm(form, &req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		files = attachmentFiles(form.File["files"])
	} else if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.reportService.CreateReport(c.UserContext(), &req, files)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ReportHandler) Lookup(c *fiber.Ctx) error {
	resp, err := h.reportService.LookupByProtocol(c.UserContext(), c.Params("protocol"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := dto.ReportFilter{
		Search: c.Query("q"),
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid company_id")
		}
		filter.CompanyID = id
	}

	reports, total, err := h.reportService.ListReports(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	report, err := h.reportService.GetReport(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.UpdateReportStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.reportService.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	if err := h.reportService.DeleteReport(c.UserContext(), id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Report deleted"})
}

func reportFromForm(form *multipart.Form, req *dto.CreateReportRequest) error {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	if raw := value("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid company_id")
		}
		req.CompanyID = id
	}
	req.Title = value("title")
	req.Description = value("description")
	req.ReporterName = value("reporter_name")
	req.ReporterEmail = value("reporter_email")

	if raw := value("anonymous"); raw != "" {
		anonymous, err := strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid anonymous flag")
		}
		req.Anonymous = anonymous
	}
	return nil
}

func attachmentFiles(headers []*multipart.FileHeader) []services.AttachmentFile {
	files := make([]services.AttachmentFile, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, services.AttachmentFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}
