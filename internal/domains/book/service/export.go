package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/utils"
)

const exportSheet = "Books"

var exportHeaders = []string{
	"ID", "Title", "Slug", "ISBN", "Author", "Category", "Price",
	"Discount %", "Current Price", "Stock", "Active", "Featured", "Created At",
}

// Export writes every book matching filter (no pagination) to an XLSX workbook.
func (s *BookService) Export(ctx context.Context, filter model.BookFilter) ([]byte, error) {
	books, err := s.repo.ListAllForExport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", lastCol, headerStyle)
	}

	for i := range books {
		b := &books[i]
		row := []interface{}{
			b.ID,
			b.Title,
			b.Slug,
			utils.Deref(b.ISBN),
			b.AuthorName,
			b.CategoryName,
			b.Price.InexactFloat64(),
			b.DiscountPercentage.InexactFloat64(),
			b.CurrentPrice().InexactFloat64(),
			b.StockQuantity,
			b.IsActive,
			b.IsFeatured,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, start, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
