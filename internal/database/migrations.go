package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/askai/internal/models"
)

// EnsureSchema creates the query log table when it does not exist yet. Existing
// tables are left untouched, so calling it on every start-up is safe.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	migrator := db.WithContext(ctx).Migrator()
	if migrator.HasTable(&models.QueryRecord{}) {
		return nil
	}
	if err := migrator.CreateTable(&models.QueryRecord{}); err != nil {
		return fmt.Errorf("create queries table: %w", err)
	}
	return nil
}
