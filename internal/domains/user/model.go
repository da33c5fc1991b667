package user

import (
	"time"

	"bookstore-catalog/internal/shared/utils"
)

// Role is the account kind. Only admins reach /admin routes.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User maps 1:1 to the users table.
type User struct {
	ID              int64  `json:"id"`
	LoginIdentifier string `json:"login_identifier"`
	PasswordHash    string `json:"-"`

	// Profile
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    *string    `json:"gender,omitempty"`

	Role             Role `json:"role"`
	ProfileCompleted bool `json:"profile_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserDTO is what the API returns for an account.
type UserDTO struct {
	ID               int64     `json:"id"`
	LoginIdentifier  string    `json:"login_identifier"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	BirthDate        string    `json:"birth_date,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	Role             Role      `json:"role"`
	ProfileCompleted bool      `json:"profile_completed"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:               u.ID,
		LoginIdentifier:  u.LoginIdentifier,
		Name:             utils.Deref(u.Name),
		Email:            utils.Deref(u.Email),
		Phone:            utils.Deref(u.Phone),
		Address:          utils.Deref(u.Address),
		BirthDate:        utils.FormatDate(u.BirthDate),
		Gender:           utils.Deref(u.Gender),
		Role:             u.Role,
		ProfileCompleted: u.ProfileCompleted,
		CreatedAt:        u.CreatedAt,
	}
}
