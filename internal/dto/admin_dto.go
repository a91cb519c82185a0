package dto

type CreateAdminRequest struct {
	Name     string  `json:"name" validate:"notblank,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=master admin"`
}

// UpdateAdminRequest changes only the fields that are present.
type UpdateAdminRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=master admin"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}
