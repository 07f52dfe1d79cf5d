package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
)

type sqliteEventRepository struct {
	db *sql.DB
}

// NewSQLiteEventRepository SQLite backed catalog journal
func NewSQLiteEventRepository(dbPath string) (repository.EventRepository, error) {
	if dbPath == "" {
		return nil, errors.New("events db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create events db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createEventSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteEventRepository{db: db}, nil
}

func createEventSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS catalog_events (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	details TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_catalog_events_ts ON catalog_events (ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create events schema: %w", err)
	}
	return nil
}

// LogEvent records one event
func (s *sqliteEventRepository) LogEvent(ctx context.Context, event entity.CatalogEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO catalog_events (id, action, details, ts) VALUES (?, ?, ?, ?)`,
		event.ID, event.Action, event.Details, event.Timestamp)
	return err
}

// GetEvents newest first
func (s *sqliteEventRepository) GetEvents(ctx context.Context, limit int) ([]entity.CatalogEvent, error) {
	query := `SELECT id, action, details, ts FROM catalog_events ORDER BY ts DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []entity.CatalogEvent
	for rows.Next() {
		var ev entity.CatalogEvent
		var details sql.NullString
		var ts time.Time
		if err := rows.Scan(&ev.ID, &ev.Action, &details, &ts); err != nil {
			return nil, err
		}
		ev.Details = details.String
		ev.Timestamp = ts
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *sqliteEventRepository) Close() error {
	return s.db.Close()
}
