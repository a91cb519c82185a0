package models

import (
	"time"

	"github.com/google/uuid"
)

// ReplyLedger holds every administrator reply to a report in Body, joined by
// the markers of package ledger. Version increases on every write and guards
// against concurrent edits.
type ReplyLedger struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"report_id"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	Version   int        `gorm:"not null;default:1" json:"version"`
	RepliedAt time.Time  `gorm:"not null;index" json:"replied_at"`
	EditorID  *uuid.UUID `gorm:"type:uuid" json:"editor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Report    Report     `gorm:"foreignKey:ReportID" json:"-"`
}
