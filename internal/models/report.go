package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending  = "pending"
	ReportStatusInReview = "in_review"
	ReportStatusAnswered = "answered"
)

// Report is a whistleblower report, tracked publicly by its protocol code.
type Report struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Protocol      string       `gorm:"not null;size:20;uniqueIndex" json:"protocol"`
	CompanyID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"company_id"`
	Title         string       `gorm:"not null;size:255" json:"title"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	Anonymous     bool         `gorm:"not null" json:"anonymous"`
	ReporterName  *string      `gorm:"size:255" json:"reporter_name,omitempty"`
	ReporterEmail *string      `gorm:"size:255" json:"reporter_email,omitempty"`
	Status        string       `gorm:"not null;default:'pending';size:20;index" json:"status"`
	CreatedAt     time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Company       *Company     `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Attachments   []Attachment `gorm:"foreignKey:ReportID" json:"attachments,omitempty"`
}
