package dto

import (
	"github.com/ahmetcoskunkizilkaya/denuncia-portal/internal/ledger"
	"github.com/google/uuid"
)

type AddReplyRequest struct {
	Text string `json:"text" validate:"notblank"`
	// Version is optional when adding; 0 asserts that no reply exists yet.
	Version *int `json:"version,omitempty" validate:"omitempty,min=0"`
}

type EditReplyRequest struct {
	Text    string `json:"text" validate:"notblank"`
	Version int    `json:"version" validate:"required,min=1"`
}

type DeleteReplyRequest struct {
	Version int `json:"version" query:"version" validate:"required,min=1"`
}

// ReplyThreadResponse is the decoded ledger of a report. Version must be sent
// back on the next write.
type ReplyThreadResponse struct {
	ReportID uuid.UUID      `json:"report_id"`
	Status   string         `json:"status"`
	Version  int            `json:"version"`
	Replies  []ledger.Reply `json:"replies"`
}
