package user

import (
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
)

var genders = []interface{}{"male", "female", "other"}

// loginIdentifier accepts an e-mail address or a 10-14 digit phone number.
var loginIdentifier = ozzo.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if validation.PhonePattern.MatchString(s) || is.EmailFormat.Validate(s) == nil {
		return nil
	}
	return ozzo.NewError("validation_login_identifier", "must be a valid email address or phone number")
})

// IsPhone reports whether a login identifier is a phone number.
func IsPhone(identifier string) bool {
	return validation.PhonePattern.MatchString(identifier)
}

// NormalizeIdentifier trims the identifier and lower-cases e-mail addresses.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if IsPhone(identifier) {
		return identifier
	}
	return strings.ToLower(identifier)
}

// RegisterRequest - POST /auth/register
type RegisterRequest struct {
	LoginIdentifier      string `json:"login_identifier" binding:"required"`
	Password             string `json:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (r *RegisterRequest) Normalize() {
	r.LoginIdentifier = NormalizeIdentifier(r.LoginIdentifier)
}

func (r *RegisterRequest) Validate() (validation.Errors, error) {
	return validation.FromOzzo(ozzo.ValidateStruct(r,
		ozzo.Field(&r.LoginIdentifier, validation.Required, validation.MaxLength(255), loginIdentifier),
		ozzo.Field(&r.Password,
			validation.Required,
			validation.MinLength(8),
			ozzo.By(func(interface{}) error {
				if r.Password != r.PasswordConfirmation {
					return ozzo.NewError("validation_confirmed", "confirmation does not match")
				}
				return nil
			}),
		),
	))
}

// LoginRequest - POST /auth/login
type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// LoginResponse - issued access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// UpdateProfileRequest - PUT /me/profile
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
}

func (r *UpdateProfileRequest) Validate(now time.Time) (validation.Errors, error) {
	return validation.FromOzzo(ozzo.ValidateStruct(r,
		ozzo.Field(&r.Name, validation.Required, validation.MaxLength(255)),
		ozzo.Field(&r.Email, validation.MaxLength(255), is.EmailFormat.Error("must be a valid email address")),
		ozzo.Field(&r.Phone, ozzo.Match(validation.PhonePattern).Error("must be 10 to 14 digits")),
		ozzo.Field(&r.Address, validation.MaxLength(500)),
		ozzo.Field(&r.BirthDate, validation.DateBefore(now, "must be a date before today")),
		ozzo.Field(&r.Gender, ozzo.In(genders...).Error("must be one of: male, female, other")),
	))
}

// Apply copies the validated profile onto u and marks it completed.
func (r *UpdateProfileRequest) Apply(u *User) {
	u.Name = utils.NullString(r.Name)
	u.Email = utils.NullString(r.Email)
	u.Phone = utils.NullString(r.Phone)
	u.Address = utils.NullString(r.Address)
	u.Gender = utils.NullString(r.Gender)
	u.BirthDate, _ = utils.ParseDate(r.BirthDate)
	u.ProfileCompleted = true
}
