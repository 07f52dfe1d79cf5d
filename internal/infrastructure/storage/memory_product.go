package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
)

// MaxNewProducts is the room reserved for registrations on top of a loaded catalog.
const MaxNewProducts = 10

type memoryProductRepository struct {
	mu       sync.RWMutex
	products []entity.Product
}

// NewMemoryProductRepository in-memory ordered catalog
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		products: make([]entity.Product, 0, MaxNewProducts),
	}
}

// Add appends a product
func (m *memoryProductRepository) Add(ctx context.Context, product entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = append(m.products, product)
	return nil
}

// AddMany appends products in order
func (m *memoryProductRepository) AddMany(ctx context.Context, products []entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = append(m.products, products...)
	return nil
}

// FindByDescription first case-insensitive match
func (m *memoryProductRepository) FindByDescription(ctx context.Context, description string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	description = strings.TrimSpace(description)
	for _, product := range m.products {
		if strings.EqualFold(product.Description(), description) {
			found := product
			return &found, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

// GetAll copy of the catalog in insertion order
func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]entity.Product, len(m.products))
	copy(products, m.products)
	return products, nil
}

// Len number of products
func (m *memoryProductRepository) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.products), nil
}

// Replace swaps the whole catalog
func (m *memoryProductRepository) Replace(ctx context.Context, products []entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make([]entity.Product, len(products), len(products)+MaxNewProducts)
	copy(m.products, products)
	return nil
}

// Clear removes every product
func (m *memoryProductRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = make([]entity.Product, 0, MaxNewProducts)
	return nil
}
