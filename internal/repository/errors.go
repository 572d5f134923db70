package repository

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
)

// Common repository errors
var (
	ErrNotFound       = apperrors.ErrNotFound
	ErrDuplicateEntry = apperrors.ErrDuplicateEntry
	ErrInvalidInput   = apperrors.ErrInvalidInput
)

// isDuplicateKeyError checks if the error is a duplicate key violation
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505") // PostgreSQL unique violation code
}

// readWhere runs a condition query against the table of T
func readWhere[T any](ctx context.Context, db *gorm.DB, opts query.Options) ([]T, error) {
	var model T
	tx, err := query.Apply(db.WithContext(ctx), &model, opts)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read %T: %w", model, err)
	}
	return rows, nil
}

// firstWhere returns the lowest-id row matching conds or ErrNotFound
func firstWhere[T any](ctx context.Context, db *gorm.DB, conds ...query.Condition) (*T, error) {
	rows, err := readWhere[T](ctx, db, query.Options{
		Conditions: conds,
		OrderBy:    []query.Order{{Field: "id"}},
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// scoped returns db filtered to the rows matching conds, for updates and deletes
func scoped(ctx context.Context, db *gorm.DB, model any, conds ...query.Condition) (*gorm.DB, error) {
	return query.Apply(db.WithContext(ctx), model, query.Options{Conditions: conds})
}
