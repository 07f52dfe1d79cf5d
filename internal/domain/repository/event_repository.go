package repository

import (
	"context"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
)

// EventRepository keeps the catalog journal.
type EventRepository interface {
	// LogEvent records one event
	LogEvent(ctx context.Context, event entity.CatalogEvent) error

	// GetEvents returns up to limit events, newest first (limit <= 0 means all)
	GetEvents(ctx context.Context, limit int) ([]entity.CatalogEvent, error)

	// Close releases underlying resources
	Close() error
}
