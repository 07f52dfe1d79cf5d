package storage

import (
	"context"
	"sync"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
)

type memoryEventRepository struct {
	mu     sync.RWMutex
	events []entity.CatalogEvent
}

// NewMemoryEventRepository in-memory catalog journal
func NewMemoryEventRepository() repository.EventRepository {
	return &memoryEventRepository{
		events: []entity.CatalogEvent{},
	}
}

// LogEvent records one event
func (m *memoryEventRepository) LogEvent(ctx context.Context, event entity.CatalogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	return nil
}

// GetEvents newest first
func (m *memoryEventRepository) GetEvents(ctx context.Context, limit int) ([]entity.CatalogEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.CatalogEvent, 0, n)
	for i := len(m.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *memoryEventRepository) Close() error {
	return nil
}
