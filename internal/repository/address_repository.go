package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddressRepository manages the shared, normalized address table
type AddressRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Address, error)
	FindOrCreate(ctx context.Context, email string, displayName *string) (*models.Address, error)
	WithTx(tx *gorm.DB) AddressRepository
}

// addressRepository implements AddressRepository using GORM
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates a new AddressRepository instance
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepository {
	return &addressRepository{db: tx}
}

// FindByEmail looks an address up by its normalized email
func (r *addressRepository) FindByEmail(ctx context.Context, email string) (*models.Address, error) {
	return firstWhere[models.Address](ctx, r.db, query.Where("email_address", models.NormalizeEmail(email)))
}

// FindOrCreate returns the address row for email, creating it if needed.
// A stored address without a display name gets displayName filled in.
func (r *addressRepository) FindOrCreate(ctx context.Context, email string, displayName *string) (*models.Address, error) {
	email = models.NormalizeEmail(email)
	if !models.ValidEmail(email) {
		return nil, fmt.Errorf("invalid email %q: %w", email, ErrInvalidInput)
	}
	displayName = cleanDisplayName(displayName)

	addr, err := r.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		addr = &models.Address{EmailAddress: email, DisplayName: displayName}
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "email_address"}},
				DoNothing: true,
			}).
			Create(addr)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to create address: %w", result.Error)
		}
		if result.RowsAffected == 1 && addr.ID != 0 {
			return addr, nil
		}
		// Lost a race with another writer; read theirs back
		addr, err = r.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	if addr.DisplayName == nil && displayName != nil {
		if err := r.backfillDisplayName(ctx, addr.ID, *displayName); err != nil {
			return nil, err
		}
		addr.DisplayName = displayName
	}
	return addr, nil
}

func (r *addressRepository) backfillDisplayName(ctx context.Context, id uint, name string) error {
	tx, err := scoped(ctx, r.db, &models.Address{},
		query.Where("id", id),
		query.F("display_name", query.Is, nil),
	)
	if err != nil {
		return err
	}
	if err := tx.Update("display_name", name).Error; err != nil {
		return fmt.Errorf("failed to backfill display name: %w", err)
	}
	return nil
}

func cleanDisplayName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
