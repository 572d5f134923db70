package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
)

// VendorRepository resolves and registers the mail sources messages come from
type VendorRepository interface {
	Read(ctx context.Context, opts query.Options) ([]models.Vendor, error)
	GetID(ctx context.Context, name string) (uint, error)
	Register(ctx context.Context, name string) error
	Ensure(ctx context.Context, name string) (uint, error)
	List(ctx context.Context) ([]models.Vendor, error)
	WithTx(tx *gorm.DB) VendorRepository
}

// vendorRepository implements VendorRepository using GORM
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new VendorRepository instance
func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	return &vendorRepository{db: tx}
}

func (r *vendorRepository) Read(ctx context.Context, opts query.Options) ([]models.Vendor, error) {
	return readWhere[models.Vendor](ctx, r.db, opts)
}

// GetID returns the id of the vendor with the given name, or ErrNotFound
func (r *vendorRepository) GetID(ctx context.Context, name string) (uint, error) {
	vendor, err := firstWhere[models.Vendor](ctx, r.db, query.Where("name", models.CanonicalVendorName(name)))
	if err != nil {
		return 0, err
	}
	return vendor.ID, nil
}

// Register creates the vendor unless it already exists. Safe to call repeatedly.
func (r *vendorRepository) Register(ctx context.Context, name string) error {
	canonical := models.CanonicalVendorName(name)
	if canonical == "" {
		return fmt.Errorf("vendor name is empty: %w", ErrInvalidInput)
	}

	_, err := r.GetID(ctx, canonical)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	result := r.db.WithContext(ctx).Create(&models.Vendor{Name: canonical})
	if result.Error != nil {
		// Another writer registered it first
		if isDuplicateKeyError(result.Error) {
			return nil
		}
		return fmt.Errorf("failed to create vendor: %w", result.Error)
	}
	return nil
}

// Ensure registers the vendor and returns its id
func (r *vendorRepository) Ensure(ctx context.Context, name string) (uint, error) {
	if err := r.Register(ctx, name); err != nil {
		return 0, err
	}
	id, err := r.GetID(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("vendor %q missing after register: %w", name, apperrors.ErrResolution)
	}
	return id, err
}

// List returns all vendors ordered by name
func (r *vendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	return r.Read(ctx, query.Options{OrderBy: []query.Order{{Field: "name"}}})
}
