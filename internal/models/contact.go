package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person responsible for handling reports inside a company.
type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	Phone     *string   `gorm:"size:30" json:"phone,omitempty"`
	Role      *string   `gorm:"size:120" json:"role,omitempty"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Contact) TableName() string {
	return "company_contacts"
}
