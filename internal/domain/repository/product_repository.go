package repository

import (
	"context"
	"errors"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

// ErrProductNotFound is returned when no product matches a lookup.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the in-memory catalog: an ordered product collection.
type ProductRepository interface {
	// Add appends a product at the end of the catalog
	Add(ctx context.Context, product entity.Product) error

	// AddMany appends products keeping their order
	AddMany(ctx context.Context, products []entity.Product) error

	// FindByDescription returns the first product whose description matches, ignoring case
	FindByDescription(ctx context.Context, description string) (*entity.Product, error)

	// GetAll returns a copy of the catalog in insertion order
	GetAll(ctx context.Context) ([]entity.Product, error)

	// Len returns the number of products
	Len(ctx context.Context) (int, error)

	// Replace swaps the whole catalog for products
	Replace(ctx context.Context, products []entity.Product) error

	// Clear removes every product
	Clear(ctx context.Context) error
}
