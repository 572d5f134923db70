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

// FolderRepository resolves folders by name or reserved system type
type FolderRepository interface {
	Read(ctx context.Context, opts query.Options) ([]models.Folder, error)
	GetID(ctx context.Context, name string) (uint, error)
	EnsureSystemFolders(ctx context.Context, folders []models.SystemFolder) error
	List(ctx context.Context) ([]models.Folder, error)
	WithTx(tx *gorm.DB) FolderRepository
}

// folderRepository implements FolderRepository using GORM
type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new FolderRepository instance
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) WithTx(tx *gorm.DB) FolderRepository {
	return &folderRepository{db: tx}
}

func (r *folderRepository) Read(ctx context.Context, opts query.Options) ([]models.Folder, error) {
	return readWhere[models.Folder](ctx, r.db, opts)
}

// GetID resolves a folder by system type (case-insensitive) and then by
// exact name. Returns ErrNotFound when neither matches.
func (r *folderRepository) GetID(ctx context.Context, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNotFound
	}

	folders, err := r.Read(ctx, query.Options{
		Conditions: []query.Condition{query.Or(
			query.Where("system_type", models.CanonicalFolderName(name)),
			query.Where("name", name),
		)},
		OrderBy: []query.Order{{Field: "id"}},
	})
	if err != nil {
		return 0, err
	}
	if len(folders) == 0 {
		return 0, ErrNotFound
	}

	canonical := models.CanonicalFolderName(name)
	for _, f := range folders {
		if f.SystemType != nil && *f.SystemType == canonical {
			return f.ID, nil
		}
	}
	return folders[0].ID, nil
}

// EnsureSystemFolders inserts the given system folders, skipping existing ones
func (r *folderRepository) EnsureSystemFolders(ctx context.Context, folders []models.SystemFolder) error {
	for _, sf := range folders {
		systemType := models.CanonicalFolderName(sf.SystemType)
		folder := models.Folder{Name: sf.Name, SystemType: &systemType}

		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&folder).Error
		if err != nil && !isDuplicateKeyError(err) {
			return fmt.Errorf("failed to seed folder %q: %w", sf.Name, err)
		}
	}
	return nil
}

// List returns all folders ordered by id
func (r *folderRepository) List(ctx context.Context) ([]models.Folder, error) {
	return r.Read(ctx, query.Options{OrderBy: []query.Order{{Field: "id"}}})
}

// folderExists is used by status updates to reject moves to unknown folders
func folderExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	_, err := firstWhere[models.Folder](ctx, db, query.Where("id", id))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
