package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxPrice = decimal.RequireFromString("99999999.99")
)

type Book struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Slug               string          `json:"slug"`
	Description        *string         `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	StockQuantity      int             `json:"stock_quantity"`
	ISBN               *string         `json:"isbn,omitempty"`
	PageCount          *int            `json:"page_count,omitempty"`
	PublicationDate    *time.Time      `json:"publication_date,omitempty"`
	Language           *string         `json:"language,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	AuthorID           int64           `json:"author_id"`
	AuthorName         string          `json:"author_name"`
	CategoryID         int64           `json:"category_id"`
	CategoryName       string          `json:"category_name"`
	IsFeatured         bool            `json:"is_featured"`
	IsActive           bool            `json:"is_active"`
	CoverImage         *string         `json:"cover_image,omitempty"`
	PreviewPDF         *string         `json:"preview_pdf,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          *time.Time      `json:"-"`
}

// NewBook returns a book carrying the create defaults.
func NewBook() *Book {
	return &Book{IsActive: true, DiscountPercentage: decimal.Zero}
}

// CurrentPrice is price reduced by discount_percentage, rounded to cents.
//
//	price=100.00 discount=25 -> 75.00
func (b *Book) CurrentPrice() decimal.Decimal {
	if b.DiscountPercentage.IsZero() {
		return b.Price
	}
	factor := hundred.Sub(b.DiscountPercentage).Div(hundred)
	return b.Price.Mul(factor).Round(2)
}

// MediaPaths lists the stored files owned by the book.
func (b *Book) MediaPaths() []string {
	var paths []string
	if b.CoverImage != nil && *b.CoverImage != "" {
		paths = append(paths, *b.CoverImage)
	}
	if b.PreviewPDF != nil && *b.PreviewPDF != "" {
		paths = append(paths, *b.PreviewPDF)
	}
	return paths
}

// CheckInvariants is called right before every insert or update.
func (b *Book) CheckInvariants() error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return ErrInvariant("title must not be empty")
	case b.Slug == "":
		return ErrInvariant("slug must not be empty")
	case b.Price.IsNegative() || b.Price.GreaterThan(maxPrice):
		return ErrInvariant("price out of range")
	case b.StockQuantity < 0:
		return ErrInvariant("stock_quantity must not be negative")
	case b.DiscountPercentage.IsNegative() || b.DiscountPercentage.GreaterThan(hundred):
		return ErrInvariant("discount_percentage must be between 0 and 100")
	case b.PageCount != nil && *b.PageCount < 1:
		return ErrInvariant("page_count must be positive")
	case b.AuthorID <= 0:
		return ErrInvariant("author_id is required")
	case b.CategoryID <= 0:
		return ErrInvariant("category_id is required")
	}
	return nil
}

// BookFilter - admin listing filters
type BookFilter struct {
	Search string
	// Status: "active" | "inactive"
	Status string
	// Featured: "yes" | "no"
	Featured string
	Page     int
}

func (f BookFilter) IsActive() *bool {
	switch strings.ToLower(f.Status) {
	case "active":
		return boolPtr(true)
	case "inactive":
		return boolPtr(false)
	}
	return nil
}

func (f BookFilter) IsFeatured() *bool {
	switch strings.ToLower(f.Featured) {
	case "yes":
		return boolPtr(true)
	case "no":
		return boolPtr(false)
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

// ListResult is one page of books plus the total row count. It is the
// unit cached for listings.
type ListResult struct {
	Books []Book `json:"books"`
	Total int    `json:"total"`
}
