package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yourusername/shop-catalog/config"
	"github.com/yourusername/shop-catalog/internal/delivery/console"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	"github.com/yourusername/shop-catalog/internal/infrastructure/locale"
	"github.com/yourusername/shop-catalog/internal/infrastructure/parser"
	"github.com/yourusername/shop-catalog/internal/infrastructure/storage"
	"github.com/yourusername/shop-catalog/internal/usecase"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logCloser := logx.Init(logx.LoggerOpts{
		Environment: cfg.Environment(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})

	err = run(context.Background(), cfg)
	if err != nil {
		logx.Error().Err(err).Msg("catalog session failed")
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	money, err := locale.NewCurrencyFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return fmt.Errorf("currency formatter: %w", err)
	}

	events := openEvents(cfg.EventsDBPath)
	defer events.Close()

	productRepo := storage.NewMemoryProductRepository()
	store := storage.NewTextFileStore(cfg.DataFile)

	productUseCase := usecase.NewProductUseCase(productRepo, store, events, money, nil)
	adminUseCase := usecase.NewCatalogAdminUseCase(productUseCase, productRepo, store, parser.NewExcelParser(), events, nil)

	logx.Info().Str("env", cfg.AppEnv).Str("data_file", cfg.DataFile).Msg("starting catalog")
	productUseCase.Load(ctx)

	return console.NewHandler(os.Stdin, os.Stdout, productUseCase, adminUseCase, cfg.ExportFile).Run(ctx)
}

// openEvents SQLite journal when configured, in-memory otherwise or when SQLite fails
func openEvents(dbPath string) repository.EventRepository {
	if dbPath == "" {
		return storage.NewMemoryEventRepository()
	}
	events, err := storage.NewSQLiteEventRepository(dbPath)
	if err != nil {
		logx.Warn().Err(err).Str("path", dbPath).Msg("events database unavailable, keeping journal in memory")
		return storage.NewMemoryEventRepository()
	}
	return events
}
