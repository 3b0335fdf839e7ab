package request

import "strings"

// IdentityRequest is the create/update payload for clients and team members.
// Profile attributes are ignored by workflows that do not keep a profile.
type IdentityRequest struct {
	Name                 string  `json:"name" validate:"required,max=255"`
	Email                string  `json:"email" validate:"required,email,lowercase,max=255"`
	Password             string  `json:"password" validate:"omitempty,min=8,max=72"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"omitempty,eqfield=Password"`
	Phone                *string `json:"phone" validate:"omitempty,max=20"`

	Address     *string `json:"address" validate:"omitempty,max=2000"`
	CountryID   *int64  `json:"country_id" validate:"omitempty,gt=0"`
	State       *string `json:"state" validate:"omitempty,max=100"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	PostCode    *string `json:"post_code" validate:"omitempty,max=20"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=255"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=50"`

	SendWelcome bool `json:"send_welcome"`
}

// Normalize trims text input and turns blank optional values into nil.
func (r *IdentityRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	for _, field := range []**string{
		&r.Phone, &r.Address, &r.State, &r.City,
		&r.PostCode, &r.CompanyName, &r.TaxID,
	} {
		*field = trimOptional(*field)
	}
}

// HasProfileFields reports whether any profile attribute was supplied.
func (r *IdentityRequest) HasProfileFields() bool {
	return r.Address != nil || r.CountryID != nil || r.State != nil || r.City != nil ||
		r.PostCode != nil || r.CompanyName != nil || r.TaxID != nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
