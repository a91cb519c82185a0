package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is an organisation reports can be filed against.
type Company struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LegalName         string    `gorm:"not null;size:255;index" json:"legal_name"`
	CNPJ              string    `gorm:"not null;size:14;uniqueIndex" json:"cnpj"`
	StateRegistration *string   `gorm:"size:30" json:"state_registration,omitempty"`
	Street            string    `gorm:"not null;size:255" json:"street"`
	Number            string    `gorm:"not null;size:20" json:"number"`
	District          string    `gorm:"not null;size:120" json:"district"`
	City              string    `gorm:"not null;size:120" json:"city"`
	State             string    `gorm:"not null;size:2" json:"state"`
	ZipCode           string    `gorm:"not null;size:8" json:"zip_code"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
