package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/yourusername/shop-catalog/internal/core"
)

// Config application configuration
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	// LogLevel empty lets the logger pick warn for stderr and info for LOG_FILE
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogFile  string `envconfig:"LOG_FILE"`

	DataFile   string `envconfig:"CATALOG_DATA_FILE" default:"dadosProdutos.csv"`
	Locale     string `envconfig:"CATALOG_LOCALE" default:"pt-BR"`
	Currency   string `envconfig:"CATALOG_CURRENCY" default:"BRL"`
	ExportFile string `envconfig:"EXPORT_FILE" default:"produtos.xlsx"`

	// EventsDBPath selects the SQLite journal; empty keeps the journal in memory
	EventsDBPath string `envconfig:"EVENTS_DB_PATH"`
}

// Environment parsed APP_ENV
func (c *Config) Environment() core.Environment {
	return core.ParseEnvironment(c.AppEnv)
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	if cfg.DataFile == "" {
		return nil, fmt.Errorf("CATALOG_DATA_FILE must not be empty")
	}
	if cfg.ExportFile == "" {
		return nil, fmt.Errorf("EXPORT_FILE must not be empty")
	}

	return &cfg, nil
}
