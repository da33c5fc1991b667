package model

import (
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
)

// AuthorInput is the create/update payload exactly as submitted.
type AuthorInput struct {
	Name        string `json:"name" form:"name"`
	Bio         string `json:"bio" form:"bio"`
	Email       string `json:"email" form:"email"`
	BirthDate   string `json:"birth_date" form:"birth_date"`
	Nationality string `json:"nationality" form:"nationality"`
}

func (in *AuthorInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Email = strings.TrimSpace(in.Email)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Nationality = strings.TrimSpace(in.Nationality)
}

// Validate runs the static field rules. now bounds birth_date.
// The error return is reserved for rules that failed to run.
func (in *AuthorInput) Validate(now time.Time) (validation.Errors, error) {
	err := ozzo.ValidateStruct(in,
		ozzo.Field(&in.Name, validation.Required, validation.MaxLength(255)),
		ozzo.Field(&in.Bio, validation.MaxLength(5000)),
		ozzo.Field(&in.Email, validation.MaxLength(255), is.EmailFormat.Error("must be a valid email address")),
		ozzo.Field(&in.BirthDate, validation.DateBefore(now.AddDate(0, 0, 1), "must not be in the future")),
		ozzo.Field(&in.Nationality, validation.MaxLength(100)),
	)
	return validation.FromOzzo(err)
}

// Apply copies validated input onto a.
func (in *AuthorInput) Apply(a *Author) {
	a.Name = in.Name
	a.Bio = utils.NullString(in.Bio)
	a.Email = utils.NullString(in.Email)
	a.Nationality = utils.NullString(in.Nationality)
	a.BirthDate, _ = utils.ParseDate(in.BirthDate)
}
