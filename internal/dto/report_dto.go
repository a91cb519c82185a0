package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/ledger"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	CompanyID     uuid.UUID `json:"company_id" form:"company_id" validate:"required"`
	Title         string    `json:"title" form:"title" validate:"min=5,max=255"`
	Description   string    `json:"description" form:"description" validate:"min=20"`
	Anonymous     bool      `json:"anonymous" form:"anonymous"`
	ReporterName  string    `json:"reporter_name,omitempty" form:"reporter_name" validate:"omitempty,max=255"`
	ReporterEmail string    `json:"reporter_email,omitempty" form:"reporter_email" validate:"omitempty,email,max=255"`
}

type ReportCreatedResponse struct {
	Protocol     string    `json:"protocol"`
	CreatedAt    time.Time `json:"created_at"`
	Attachments  int       `json:"attachments"`
	SkippedFiles []string  `json:"skipped_files,omitempty"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ReportFilter struct {
	Search    string
	Status    string
	CompanyID uuid.UUID
	Limit     int
	Offset    int
}

type PublicAttachment struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// ProtocolLookupResponse is what a reporter sees when tracking a report.
type ProtocolLookupResponse struct {
	Protocol     string             `json:"protocol"`
	Status       string             `json:"status"`
	CompanyName  string             `json:"company_name"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	CreatedAt    time.Time          `json:"created_at"`
	ReporterName *string            `json:"reporter_name,omitempty"`
	Attachments  []PublicAttachment `json:"attachments"`
	Replies      []ledger.Reply     `json:"replies"`
}
