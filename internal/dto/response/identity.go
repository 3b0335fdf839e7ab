package response

import (
	"time"

	"backoffice/internal/data/entity"
)

// ClientListItem is one row of the client index.
type ClientListItem struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone"`
	CompanyName *string    `json:"company_name"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// StaffListItem is one row of the team index.
type StaffListItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	Role  string  `json:"role"`
}

type ProfileView struct {
	Address     *string `json:"address"`
	CountryID   *int64  `json:"country_id"`
	State       *string `json:"state"`
	City        *string `json:"city"`
	PostCode    *string `json:"post_code"`
	CompanyName *string `json:"company_name"`
	TaxID       *string `json:"tax_id"`
}

// IdentityDetail is the edit view of a client or team member. Profile is
// omitted for identities that never carry one.
type IdentityDetail struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       *string      `json:"phone"`
	Role        string       `json:"role"`
	AvatarPath  *string      `json:"avatar_path"`
	AvatarURL   *string      `json:"avatar_url"`
	LastLoginAt *time.Time   `json:"last_login_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Profile     *ProfileView `json:"profile,omitempty"`
}

func ClientToListItem(user *entity.User) ClientListItem {
	item := ClientListItem{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
	if user.Profile != nil {
		item.CompanyName = user.Profile.CompanyName
	}
	return item
}

func StaffToListItem(user *entity.User) StaffListItem {
	return StaffListItem{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role.Label(),
	}
}

// IdentityToDetail projects the edit view. withProfile forces a profile
// object, all null when the identity has none yet.
func IdentityToDetail(user *entity.User, withProfile bool, avatarURL func(string) string) IdentityDetail {
	detail := IdentityDetail{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Role:        user.Role.Label(),
		AvatarPath:  user.AvatarPath,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if user.AvatarPath != nil && avatarURL != nil {
		u := avatarURL(*user.AvatarPath)
		detail.AvatarURL = &u
	}
	if withProfile {
		detail.Profile = &ProfileView{}
		if p := user.Profile; p != nil {
			*detail.Profile = ProfileView{
				Address:     p.Address,
				CountryID:   p.CountryID,
				State:       p.State,
				City:        p.City,
				PostCode:    p.PostCode,
				CompanyName: p.CompanyName,
				TaxID:       p.TaxID,
			}
		}
	}
	return detail
}
