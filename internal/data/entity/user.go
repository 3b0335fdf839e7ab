package entity

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleStaff  UserRole = "staff"
	RoleClient UserRole = "client"
)

// Label is the human readable role name shown in listings.
func (r UserRole) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleStaff:
		return "Staff"
	case RoleClient:
		return "Client"
	default:
		return string(r)
	}
}

type User struct {
	Base
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	Phone        *string    `db:"phone"`
	Role         UserRole   `db:"role"`
	AvatarPath   *string    `db:"avatar"`
	LastLoginAt  *time.Time `db:"last_login_at"`

	// Profile is only populated when explicitly loaded.
	Profile *Profile `db:"-"`
}
