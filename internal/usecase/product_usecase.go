package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

// forbiddenDescriptionChars would break the record format on the next load.
const forbiddenDescriptionChars = ";,\r\n"

// RegisterInput data typed by the user for a new product
type RegisterInput struct {
	Kind        entity.Kind
	Description string
	CostPrice   float64
	// ProfitMargin nil means entity.DefaultProfitMargin
	ProfitMargin *float64
	// ExpiresOn is used by perishables only
	ExpiresOn time.Time
}

// ProductUseCase catalog business logic for the interactive session
type ProductUseCase interface {
	// Load fills the catalog from storage and returns how many products were loaded.
	// Any failure is logged and leaves the catalog empty.
	Load(ctx context.Context) int

	// GetAll products in catalog order
	GetAll(ctx context.Context) ([]entity.Product, error)

	// Search exact description lookup, ignoring case and surrounding blanks
	Search(ctx context.Context, description string) (entity.Product, error)

	// HasProducts reports whether the catalog is not empty
	HasProducts(ctx context.Context) (bool, error)

	// Register validates and appends a new product
	Register(ctx context.Context, input RegisterInput) (entity.Product, error)

	// DisplayLines numbered listing of the catalog
	DisplayLines(ctx context.Context) ([]string, error)

	// ProductLine display line of one product, with a fallback for expired ones
	ProductLine(p entity.Product) string

	// Save writes the catalog back to storage
	Save(ctx context.Context) error

	// LoadedAt time of the last Load
	LoadedAt() time.Time
}

type productUseCase struct {
	productRepo repository.ProductRepository
	store       repository.CatalogStore
	money       entity.MoneyFormatter
	journal     journal
	clock       Clock

	loadedAt time.Time
	// degraded is set when the last load failed, so the stored data was not read
	degraded bool
}

// NewProductUseCase wires the catalog session. events may be nil; a nil clock means time.Now.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	store repository.CatalogStore,
	events repository.EventRepository,
	money entity.MoneyFormatter,
	clock Clock,
) ProductUseCase {
	clock = clockOrNow(clock)
	return &productUseCase{
		productRepo: productRepo,
		store:       store,
		money:       money,
		journal:     journal{events: events, clock: clock},
		clock:       clock,
	}
}

func (u *productUseCase) Load(ctx context.Context) int {
	u.loadedAt = u.clock()

	products, err := u.store.Load(ctx, u.loadedAt)
	if err == nil {
		err = u.productRepo.Replace(ctx, products)
	}
	if err != nil {
		logx.Error().Err(err).Str("source", u.store.Source()).Msg("failed to load catalog, starting empty")
		u.degraded = true
		_ = u.productRepo.Clear(ctx)
		u.journal.record(ctx, entity.ActionLoad, "load failed: "+err.Error())
		return 0
	}

	u.degraded = false
	logx.Info().Int("products", len(products)).Str("source", u.store.Source()).Msg("catalog loaded")
	u.journal.record(ctx, entity.ActionLoad, fmt.Sprintf("%d products from %s", len(products), u.store.Source()))
	return len(products)
}

func (u *productUseCase) GetAll(ctx context.Context) ([]entity.Product, error) {
	return u.productRepo.GetAll(ctx)
}

func (u *productUseCase) Search(ctx context.Context, description string) (entity.Product, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return entity.Product{}, repository.ErrProductNotFound
	}
	found, err := u.productRepo.FindByDescription(ctx, description)
	if err != nil {
		return entity.Product{}, err
	}
	return *found, nil
}

func (u *productUseCase) HasProducts(ctx context.Context) (bool, error) {
	n, err := u.productRepo.Len(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *productUseCase) Register(ctx context.Context, input RegisterInput) (entity.Product, error) {
	product, err := buildProduct(input, u.clock())
	if err != nil {
		return entity.Product{}, err
	}

	if err := ensureUnique(ctx, u.productRepo, product); err != nil {
		return entity.Product{}, err
	}
	if err := u.productRepo.Add(ctx, product); err != nil {
		return entity.Product{}, fmt.Errorf("failed to add product: %w", err)
	}

	logx.Info().Str("description", product.Description()).Stringer("kind", product.Kind()).Msg("product registered")
	u.journal.record(ctx, entity.ActionRegister, product.RecordText())
	return product, nil
}

func buildProduct(input RegisterInput, now time.Time) (entity.Product, error) {
	description := strings.TrimSpace(input.Description)
	if err := checkDescription(description); err != nil {
		return entity.Product{}, err
	}

	margin := entity.DefaultProfitMargin
	if input.ProfitMargin != nil {
		margin = *input.ProfitMargin
	}

	switch input.Kind {
	case entity.NonPerishable:
		return entity.NewNonPerishable(description, input.CostPrice, margin)
	case entity.Perishable:
		return entity.NewPerishable(description, input.CostPrice, margin, input.ExpiresOn, now)
	default:
		return entity.Product{}, errx.Newf(errx.InvalidArgument, "unknown product type %d", int(input.Kind))
	}
}

func checkDescription(description string) error {
	if strings.ContainsAny(description, forbiddenDescriptionChars) {
		return errx.New(errx.InvalidArgument, "description must not contain ';', ',' or line breaks")
	}
	return nil
}

func ensureUnique(ctx context.Context, repo repository.ProductRepository, product entity.Product) error {
	_, err := repo.FindByDescription(ctx, product.Description())
	switch {
	case err == nil:
		return errx.Newf(errx.InvalidArgument, "product %q is already registered", product.Description())
	case errors.Is(err, repository.ErrProductNotFound):
		return nil
	default:
		return err
	}
}

func (u *productUseCase) DisplayLines(ctx context.Context) ([]string, error) {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(products))
	for i, p := range products {
		lines = append(lines, fmt.Sprintf("%02d - %s", i+1, u.ProductLine(p)))
	}
	return lines, nil
}

func (u *productUseCase) ProductLine(p entity.Product) string {
	text, err := p.DisplayText(u.clock(), u.money)
	if err == nil {
		return text
	}
	// expired perishables have no sale value
	expiresOn, _ := p.ExpiresOn()
	return "NOME: " + p.Description() + ": VENCIDO | Validade: " + expiresOn.Format(entity.DateLayout)
}

func (u *productUseCase) Save(ctx context.Context) error {
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	if u.degraded {
		backup, err := u.store.Backup(ctx)
		switch {
		case err == nil:
			logx.Warn().Str("backup", backup).Msg("unreadable catalog data backed up before overwrite")
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to back up catalog before save: %w", err)
		}
	}

	if err := u.store.Save(ctx, products); err != nil {
		logx.Error().Err(err).Str("target", u.store.Source()).Msg("failed to save catalog")
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	u.degraded = false
	logx.Info().Int("products", len(products)).Str("target", u.store.Source()).Msg("catalog saved")
	u.journal.record(ctx, entity.ActionSave, fmt.Sprintf("%d products to %s", len(products), u.store.Source()))
	return nil
}

func (u *productUseCase) LoadedAt() time.Time {
	return u.loadedAt
}
