package dto

import "github.com/google/uuid"

// CompanyRequest accepts CNPJ and CEP with or without punctuation.
type CompanyRequest struct {
	LegalName         string  `json:"legal_name" validate:"notblank,max=255"`
	CNPJ              string  `json:"cnpj" validate:"required,cnpj"`
	StateRegistration *string `json:"state_registration,omitempty" validate:"omitempty,max=30"`
	Street            string  `json:"street" validate:"notblank,max=255"`
	Number            string  `json:"number" validate:"notblank,max=20"`
	District          string  `json:"district" validate:"notblank,max=120"`
	City              string  `json:"city" validate:"notblank,max=120"`
	State             string  `json:"state" validate:"required,len=2,alpha"`
	ZipCode           string  `json:"zip_code" validate:"required,cep"`
}

// CompanySummary is what the public report form needs to pick a company.
type CompanySummary struct {
	ID        uuid.UUID `json:"id"`
	LegalName string    `json:"legal_name"`
	CNPJ      string    `json:"cnpj"`
}
