package querylog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/askai/internal/database"
	"github.com/charlesng35/askai/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ErrNotFound is returned by Get when no record carries the requested id.
var ErrNotFound = errors.New("querylog: record not found")

// RecordID is the store-assigned identifier of a query record.
type RecordID uint64

// ListOptions controls pagination for List.
type ListOptions struct {
	Page     int
	PageSize int
}

// Store is the append-only log of question/answer pairs.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store using the provided database handle.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("querylog: db is required")
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the backing table if absent. Safe to call on every start-up.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := database.EnsureSchema(ensureContext(ctx), s.db); err != nil {
		return fmt.Errorf("querylog: ensure schema: %w", err)
	}
	return nil
}

// Append persists one question/answer pair and returns the id assigned by the
// database. A dedicated connection is held only for the duration of the insert and
// is released on every exit path.
func (s *Store) Append(ctx context.Context, question, answer string) (RecordID, error) {
	ctx = ensureContext(ctx)

	record := models.QueryRecord{Question: question, Answer: answer}
	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&record).Error
		})
	})
	if err != nil {
		return 0, fmt.Errorf("querylog: append: %w", err)
	}

	return RecordID(record.ID), nil
}

// Get returns a single record by id.
func (s *Store) Get(ctx context.Context, id RecordID) (*models.QueryRecord, error) {
	var record models.QueryRecord
	err := s.db.WithContext(ensureContext(ctx)).Take(&record, "id = ?", uint64(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querylog: get %d: %w", id, err)
	}
	return &record, nil
}

// List returns records newest first together with the total count.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.QueryRecord, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(opts)

	var (
		records []models.QueryRecord
		total   int64
	)

	base := s.db.WithContext(ctx)
	if err := base.Model(&models.QueryRecord{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("querylog: count records: %w", err)
	}

	if err := base.
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("querylog: list records: %w", err)
	}

	return records, total, nil
}

// Count returns the number of persisted records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ensureContext(ctx)).Model(&models.QueryRecord{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("querylog: count records: %w", err)
	}
	return total, nil
}

// Normalize returns the options List actually applies.
func (o ListOptions) Normalize() ListOptions {
	page, perPage := normalisePage(o)
	return ListOptions{Page: page, PageSize: perPage}
}

// normalisePage clamps pagination input to sane bounds.
func normalisePage(opts ListOptions) (page, perPage int) {
	page = opts.Page
	if page <= 0 {
		page = 1
	}
	perPage = opts.PageSize
	if perPage <= 0 || perPage > maxPageSize {
		perPage = defaultPageSize
	}
	return page, perPage
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
