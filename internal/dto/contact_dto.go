package dto

import "github.com/google/uuid"

type ContactRequest struct {
	CompanyID uuid.UUID `json:"company_id" validate:"required"`
	Name      string    `json:"name" validate:"notblank,max=255"`
	Email     string    `json:"email" validate:"required,email,max=255"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,max=30"`
	Role      *string   `json:"role,omitempty" validate:"omitempty,max=120"`
	Notes     *string   `json:"notes,omitempty"`
}
