package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment is a file uploaded together with a report.
type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID    uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	StoragePath string    `gorm:"not null;size:512" json:"-"`
	URL         string    `gorm:"not null;size:1024" json:"url"`
	FileName    string    `gorm:"not null;size:255" json:"file_name"`
	MimeType    string    `gorm:"size:127" json:"mime_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}
