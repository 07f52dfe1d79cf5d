package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

// RowError describes a spreadsheet row that could not become a product.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Err.Error()
}

func (e RowError) Unwrap() error {
	return e.Err
}

// SpreadsheetCodec reads and writes the catalog as a spreadsheet.
type SpreadsheetCodec interface {
	// ParseProducts reads products from a spreadsheet file; rows that fail are reported, not fatal
	ParseProducts(ctx context.Context, filePath string, now time.Time) ([]entity.Product, []RowError, error)

	// ExportProducts writes products to a spreadsheet file
	ExportProducts(ctx context.Context, filePath string, products []entity.Product, now time.Time) error
}
