package usecase

import (
	"context"
	"fmt"

	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

// DefaultHistoryLimit is used by History when limit is not positive.
const DefaultHistoryLimit = 10

// ImportResult outcome of a spreadsheet import
type ImportResult struct {
	Imported  int
	Skipped   []string // descriptions already in the catalog
	RowErrors []repository.RowError
}

// CatalogAdminUseCase catalog maintenance: spreadsheets, summary and journal
type CatalogAdminUseCase interface {
	// ExportSpreadsheet writes the catalog to an .xlsx file and returns the product count
	ExportSpreadsheet(ctx context.Context, path string) (int, error)

	// ImportSpreadsheet appends the products of an .xlsx file that are not in the catalog yet
	ImportSpreadsheet(ctx context.Context, path string) (ImportResult, error)

	// GetCatalogInfo catalog summary
	GetCatalogInfo(ctx context.Context) (entity.CatalogInfo, error)

	// History latest catalog events, newest first
	History(ctx context.Context, limit int) ([]entity.CatalogEvent, error)
}

type catalogAdminUseCase struct {
	products    ProductUseCase
	productRepo repository.ProductRepository
	store       repository.CatalogStore
	codec       repository.SpreadsheetCodec
	events      repository.EventRepository
	journal     journal
	clock       Clock
}

// NewCatalogAdminUseCase events may be nil; a nil clock means time.Now
func NewCatalogAdminUseCase(
	products ProductUseCase,
	productRepo repository.ProductRepository,
	store repository.CatalogStore,
	codec repository.SpreadsheetCodec,
	events repository.EventRepository,
	clock Clock,
) CatalogAdminUseCase {
	clock = clockOrNow(clock)
	return &catalogAdminUseCase{
		products:    products,
		productRepo: productRepo,
		store:       store,
		codec:       codec,
		events:      events,
		journal:     journal{events: events, clock: clock},
		clock:       clock,
	}
}

func (u *catalogAdminUseCase) ExportSpreadsheet(ctx context.Context, path string) (int, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := u.codec.ExportProducts(ctx, path, products, u.clock()); err != nil {
		return 0, fmt.Errorf("failed to export spreadsheet: %w", err)
	}

	logx.Info().Int("products", len(products)).Str("path", path).Msg("catalog exported")
	u.journal.record(ctx, entity.ActionExport, fmt.Sprintf("%d products to %s", len(products), path))
	return len(products), nil
}

func (u *catalogAdminUseCase) ImportSpreadsheet(ctx context.Context, path string) (ImportResult, error) {
	parsed, rowErrs, err := u.codec.ParseProducts(ctx, path, u.clock())
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}

	result := ImportResult{RowErrors: rowErrs}
	accepted := make([]entity.Product, 0, len(parsed))
	for _, p := range parsed {
		err := ensureUnique(ctx, u.productRepo, p)
		if err != nil && !errx.Is(err, errx.InvalidArgument) {
			return ImportResult{}, err
		}
		if err != nil || containsProduct(accepted, p) {
			result.Skipped = append(result.Skipped, p.Description())
			continue
		}
		accepted = append(accepted, p)
	}

	if err := u.productRepo.AddMany(ctx, accepted); err != nil {
		return ImportResult{}, fmt.Errorf("failed to add imported products: %w", err)
	}
	result.Imported = len(accepted)

	logx.Info().
		Int("imported", result.Imported).
		Int("skipped", len(result.Skipped)).
		Int("rejected", len(result.RowErrors)).
		Str("path", path).
		Msg("spreadsheet imported")
	u.journal.record(ctx, entity.ActionImport, fmt.Sprintf("%d products from %s (%d skipped, %d rejected)",
		result.Imported, path, len(result.Skipped), len(result.RowErrors)))

	return result, nil
}

func containsProduct(products []entity.Product, p entity.Product) bool {
	for _, other := range products {
		if other.Equal(p) {
			return true
		}
	}
	return false
}

func (u *catalogAdminUseCase) GetCatalogInfo(ctx context.Context) (entity.CatalogInfo, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return entity.CatalogInfo{}, err
	}

	now := u.clock()
	info := entity.CatalogInfo{
		Total:    len(products),
		Source:   u.store.Source(),
		LoadedAt: u.products.LoadedAt(),
	}
	for _, p := range products {
		switch p.Kind() {
		case entity.NonPerishable:
			info.NonPerishable++
		case entity.Perishable:
			info.Perishable++
		}
		if p.Expired(now) {
			info.Expired++
		}
		if p.Discounted(now) {
			info.Discounted++
		}
	}
	return info, nil
}

func (u *catalogAdminUseCase) History(ctx context.Context, limit int) ([]entity.CatalogEvent, error) {
	if u.events == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return u.events.GetEvents(ctx, limit)
}
