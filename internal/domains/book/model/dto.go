package model

import (
	"strconv"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
)

// BookInput holds the scalar form fields exactly as submitted, so they can
// be echoed back when validation fails.
type BookInput struct {
	Title              string `json:"title" form:"title"`
	Description        string `json:"description" form:"description"`
	Price              string `json:"price" form:"price"`
	StockQuantity      string `json:"stock_quantity" form:"stock_quantity"`
	ISBN               string `json:"isbn" form:"isbn"`
	PageCount          string `json:"page_count" form:"page_count"`
	PublicationDate    string `json:"publication_date" form:"publication_date"`
	Language           string `json:"language" form:"language"`
	DiscountPercentage string `json:"discount_percentage" form:"discount_percentage"`
	AuthorID           string `json:"author_id" form:"author_id"`
	CategoryID         string `json:"category_id" form:"category_id"`
	IsFeatured         string `json:"is_featured" form:"is_featured"`
	IsActive           string `json:"is_active" form:"is_active"`
}

type CreateBookRequest struct {
	BookInput
	// NewAuthorName, when set, creates a new author for the book.
	NewAuthorName string `json:"new_author_name" form:"new_author_name"`

	CoverImage *storage.Upload `json:"-" form:"-"`
	PreviewPDF *storage.Upload `json:"-" form:"-"`
}

type UpdateBookRequest struct {
	BookInput
	RemoveCoverImage string `json:"remove_cover_image" form:"remove_cover_image"`
	RemovePreviewPDF string `json:"remove_preview_pdf" form:"remove_preview_pdf"`

	CoverImage *storage.Upload `json:"-" form:"-"`
	PreviewPDF *storage.Upload `json:"-" form:"-"`
}

// UnmarshalJSON accepts native JSON numbers and booleans next to strings.
func (r *CreateBookRequest) UnmarshalJSON(data []byte) error {
	type plain CreateBookRequest
	return validation.UnmarshalScalars(data, (*plain)(r))
}

func (r *UpdateBookRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateBookRequest
	return validation.UnmarshalScalars(data, (*plain)(r))
}

func (in *BookInput) Normalize() {
	for _, f := range []*string{
		&in.Title, &in.Description, &in.Price, &in.StockQuantity, &in.ISBN,
		&in.PageCount, &in.PublicationDate, &in.Language, &in.DiscountPercentage,
		&in.AuthorID, &in.CategoryID, &in.IsFeatured, &in.IsActive,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Validate runs the static field rules. Lookups (uniqueness, references)
// happen in the service.
func (in *BookInput) Validate() (validation.Errors, error) {
	err := ozzo.ValidateStruct(in,
		ozzo.Field(&in.Title, validation.Required, validation.MaxLength(255)),
		ozzo.Field(&in.Description, validation.MaxLength(5000)),
		ozzo.Field(&in.Price, validation.Required, validation.Numeric(validation.Ptr(0), validation.Ptr(99999999.99))),
		ozzo.Field(&in.StockQuantity, validation.Required, validation.Integer(0)),
		ozzo.Field(&in.ISBN, validation.MaxLength(20)),
		ozzo.Field(&in.PageCount, validation.Integer(1)),
		ozzo.Field(&in.PublicationDate, validation.Date),
		ozzo.Field(&in.Language, validation.MaxLength(50)),
		ozzo.Field(&in.DiscountPercentage, validation.Numeric(validation.Ptr(0), validation.Ptr(100))),
		ozzo.Field(&in.AuthorID, validation.ID),
		ozzo.Field(&in.CategoryID, validation.Required, validation.ID),
		ozzo.Field(&in.IsFeatured, validation.Boolean),
		ozzo.Field(&in.IsActive, validation.Boolean),
	)
	return validation.FromOzzo(err)
}

func (r *CreateBookRequest) Normalize() {
	r.BookInput.Normalize()
	r.NewAuthorName = strings.TrimSpace(r.NewAuthorName)
}

func (r *CreateBookRequest) Validate() (validation.Errors, error) {
	errs, err := r.BookInput.Validate()
	if err != nil {
		return nil, err
	}
	extra, err := validation.FromOzzo(ozzo.ValidateStruct(r,
		ozzo.Field(&r.NewAuthorName, validation.MaxLength(255)),
	))
	if err != nil {
		return nil, err
	}
	errs.Merge(extra)
	return errs, nil
}

func (r *UpdateBookRequest) Normalize() {
	r.BookInput.Normalize()
	r.RemoveCoverImage = strings.TrimSpace(r.RemoveCoverImage)
	r.RemovePreviewPDF = strings.TrimSpace(r.RemovePreviewPDF)
}

func (r *UpdateBookRequest) Validate() (validation.Errors, error) {
	errs, err := r.BookInput.Validate()
	if err != nil {
		return nil, err
	}
	extra, err := validation.FromOzzo(ozzo.ValidateStruct(r,
		ozzo.Field(&r.RemoveCoverImage, validation.Boolean),
		ozzo.Field(&r.RemovePreviewPDF, validation.Boolean),
	))
	if err != nil {
		return nil, err
	}
	errs.Merge(extra)
	return errs, nil
}

// ParsedAuthorID returns the selected author id, 0 when none was given.
func (in *BookInput) ParsedAuthorID() int64 {
	id, _ := strconv.ParseInt(in.AuthorID, 10, 64)
	return id
}

func (in *BookInput) ParsedCategoryID() int64 {
	id, _ := strconv.ParseInt(in.CategoryID, 10, 64)
	return id
}

// Apply coerces the validated input onto b. Absent booleans keep the
// current value; an absent discount means 0.
func (in *BookInput) Apply(b *Book) {
	b.Title = in.Title
	b.Description = utils.NullString(in.Description)
	b.Price = decimal.RequireFromString(in.Price)
	b.StockQuantity, _ = strconv.Atoi(in.StockQuantity)
	b.ISBN = utils.NullString(in.ISBN)
	b.Language = utils.NullString(in.Language)

	b.PageCount = nil
	if in.PageCount != "" {
		n, _ := strconv.Atoi(in.PageCount)
		b.PageCount = &n
	}

	b.PublicationDate = nil
	if in.PublicationDate != "" {
		if t, err := time.Parse(validation.DateLayout, in.PublicationDate); err == nil {
			b.PublicationDate = &t
		}
	}

	b.DiscountPercentage = decimal.Zero
	if in.DiscountPercentage != "" {
		b.DiscountPercentage = decimal.RequireFromString(in.DiscountPercentage)
	}

	if id := in.ParsedAuthorID(); id > 0 {
		b.AuthorID = id
	}
	b.CategoryID = in.ParsedCategoryID()
	b.IsFeatured = validation.BoolOr(in.IsFeatured, b.IsFeatured)
	b.IsActive = validation.BoolOr(in.IsActive, b.IsActive)
}

// BookResponse is the admin representation of a book.
type BookResponse struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Slug               string          `json:"slug"`
	Description        string          `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	StockQuantity      int             `json:"stock_quantity"`
	ISBN               string          `json:"isbn,omitempty"`
	PageCount          *int            `json:"page_count,omitempty"`
	PublicationDate    string          `json:"publication_date,omitempty"`
	Language           string          `json:"language,omitempty"`
	AuthorID           int64           `json:"author_id"`
	AuthorName         string          `json:"author_name"`
	CategoryID         int64           `json:"category_id"`
	CategoryName       string          `json:"category_name"`
	IsFeatured         bool            `json:"is_featured"`
	IsActive           bool            `json:"is_active"`
	CoverImage         string          `json:"cover_image,omitempty"`
	CoverImageURL      string          `json:"cover_image_url,omitempty"`
	PreviewPDF         string          `json:"preview_pdf,omitempty"`
	PreviewPDFURL      string          `json:"preview_pdf_url,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToResponse renders b; urlFor maps a stored path to its public URL.
func (b *Book) ToResponse(urlFor func(string) string) *BookResponse {
	cover := utils.Deref(b.CoverImage)
	preview := utils.Deref(b.PreviewPDF)
	return &BookResponse{
		ID:                 b.ID,
		Title:              b.Title,
		Slug:               b.Slug,
		Description:        utils.Deref(b.Description),
		Price:              b.Price,
		DiscountPercentage: b.DiscountPercentage,
		CurrentPrice:       b.CurrentPrice(),
		StockQuantity:      b.StockQuantity,
		ISBN:               utils.Deref(b.ISBN),
		PageCount:          b.PageCount,
		PublicationDate:    utils.FormatDate(b.PublicationDate),
		Language:           utils.Deref(b.Language),
		AuthorID:           b.AuthorID,
		AuthorName:         b.AuthorName,
		CategoryID:         b.CategoryID,
		CategoryName:       b.CategoryName,
		IsFeatured:         b.IsFeatured,
		IsActive:           b.IsActive,
		CoverImage:         cover,
		CoverImageURL:      urlFor(cover),
		PreviewPDF:         preview,
		PreviewPDFURL:      urlFor(preview),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
