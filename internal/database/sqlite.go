package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn, err := buildSQLiteDSN(cfg)
	if err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func buildSQLiteDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := strings.TrimSpace(cfg.Path)
	switch {
	case path == "", strings.EqualFold(path, ":memory:"):
		return "file::memory:?cache=shared", nil
	default:
		if err := ensureDir(path); err != nil {
			return "", err
		}
		return fmt.Sprintf("file:%s?_journal_mode=WAL", filepath.ToSlash(path)), nil
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
