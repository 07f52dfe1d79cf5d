package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/shop-catalog/internal/core/errx"
	"github.com/yourusername/shop-catalog/internal/domain/entity"
	"github.com/yourusername/shop-catalog/internal/domain/repository"
	"github.com/yourusername/shop-catalog/internal/infrastructure/parser"
	logx "github.com/yourusername/shop-catalog/pkg/logger"
)

// BackupSuffix is appended to the data file name by Backup.
const BackupSuffix = ".bak"

type textFileStore struct {
	path string
}

// NewTextFileStore catalog persisted as a count line plus one record per line
func NewTextFileStore(path string) repository.CatalogStore {
	return &textFileStore{path: path}
}

func (s *textFileStore) Source() string {
	return s.path
}

// Load reads the data file. A missing file is created empty and yields no products.
func (s *textFileStore) Load(ctx context.Context, now time.Time) ([]entity.Product, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logx.Warn().Str("path", s.path).Msg("data file not found, creating an empty one")
		if err := s.createEmpty(); err != nil {
			return nil, err
		}
		return []entity.Product{}, nil
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.IOFailure, "open data file")
	}
	defer f.Close()

	products, err := parser.ReadCatalog(f, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return products, nil
}

func (s *textFileStore) createEmpty() error {
	if err := ensureDir(s.path); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return errx.Wrap(err, errx.IOFailure, "create data file")
	}
	return errx.Wrap(f.Close(), errx.IOFailure, "create data file")
}

// Save replaces the data file through a temporary file in the same directory.
func (s *textFileStore) Save(ctx context.Context, products []entity.Product) (err error) {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return errx.Wrap(err, errx.IOFailure, "create temporary data file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = parser.WriteCatalog(tmp, products); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errx.Wrap(err, errx.IOFailure, "sync data file")
	}
	if err = tmp.Close(); err != nil {
		return errx.Wrap(err, errx.IOFailure, "close data file")
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return errx.Wrap(err, errx.IOFailure, "set data file permissions")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return errx.Wrap(err, errx.IOFailure, "replace data file")
	}
	return nil
}

// Backup copies the data file next to itself with BackupSuffix.
func (s *textFileStore) Backup(ctx context.Context) (string, error) {
	src, err := os.Open(s.path)
	if err != nil {
		return "", errx.Wrap(err, errx.IOFailure, "open data file for backup")
	}
	defer src.Close()

	target := s.path + BackupSuffix
	dst, err := os.Create(target)
	if err != nil {
		return "", errx.Wrap(err, errx.IOFailure, "create backup file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", errx.Wrap(err, errx.IOFailure, "copy data file")
	}
	if err := dst.Close(); err != nil {
		return "", errx.Wrap(err, errx.IOFailure, "close backup file")
	}
	return target, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errx.Wrap(err, errx.IOFailure, "create data directory")
	}
	return nil
}
