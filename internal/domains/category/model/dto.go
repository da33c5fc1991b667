package model

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
)

// CategoryInput is the create/update payload exactly as submitted.
type CategoryInput struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	IsActive    string `json:"is_active" form:"is_active"`
}

// UnmarshalJSON lets JSON clients send is_active as a native boolean.
func (in *CategoryInput) UnmarshalJSON(data []byte) error {
	type plain CategoryInput
	return validation.UnmarshalScalars(data, (*plain)(in))
}

func (in *CategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.IsActive = strings.TrimSpace(in.IsActive)
}

func (in *CategoryInput) Validate() (validation.Errors, error) {
	err := ozzo.ValidateStruct(in,
		ozzo.Field(&in.Name, validation.Required, validation.MaxLength(255)),
		ozzo.Field(&in.Description, validation.MaxLength(1000)),
		ozzo.Field(&in.IsActive, validation.Boolean),
	)
	return validation.FromOzzo(err)
}

// Apply copies validated input onto c. An absent is_active keeps the
// current value, which is true for a new category.
func (in *CategoryInput) Apply(c *Category) {
	c.Name = in.Name
	c.Description = utils.NullString(in.Description)
	c.IsActive = validation.BoolOr(in.IsActive, c.IsActive)
}

// NewCategory returns a category carrying the create defaults.
func NewCategory() *Category {
	return &Category{IsActive: true}
}
