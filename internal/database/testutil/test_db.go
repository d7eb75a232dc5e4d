package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/askai/internal/database"
)

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	ensureSchema bool
}

// WithSchema creates the query log table after opening the test database.
func WithSchema() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.ensureSchema = true
	}
}

// MustOpenTestDB opens a private in-memory SQLite database for the calling test. Each
// call gets its own named database, so tests never observe each other's rows. The
// connection pool is closed via t.Cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	cfg := testDBConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)

	if cfg.ensureSchema {
		require.NoError(t, database.EnsureSchema(context.Background(), db))
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}
