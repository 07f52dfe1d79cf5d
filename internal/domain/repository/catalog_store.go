package repository

import (
	"context"
	"time"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

// CatalogStore persists the catalog as a whole.
type CatalogStore interface {
	// Load reads every product from storage
	Load(ctx context.Context, now time.Time) ([]entity.Product, error)

	// Save overwrites storage with products
	Save(ctx context.Context, products []entity.Product) error

	// Backup copies the current stored data aside and returns the copy's location
	Backup(ctx context.Context) (string, error)

	// Source names the storage location, e.g. the file path
	Source() string
}
