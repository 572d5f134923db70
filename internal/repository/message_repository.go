package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnfiledFolderID addresses messages stored without a folder in GetOwned and List
const UnfiledFolderID uint = 0

// existingIDsChunk keeps IN lists under SQLite's bound-parameter limit
const existingIDsChunk = 500

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Read(ctx context.Context, opts query.Options) ([]models.Message, error)
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetByRFC822ID(ctx context.Context, rfc822ID string) (*models.Message, error)
	ExistingRFC822IDs(ctx context.Context, rfc822IDs []string) (map[string]struct{}, error)
	Create(ctx context.Context, message *models.Message) (bool, error)
	GetOwned(ctx context.Context, id, vendorID, folderID uint) (*models.Message, error)
	List(ctx context.Context, vendorID, folderID uint, limit, offset int) ([]models.MessageHeader, int64, error)
	UpdateStatus(ctx context.Context, id uint, update models.MessageStatusUpdate) error
	Delete(ctx context.Context, id uint) error
	WithTx(tx *gorm.DB) MessageRepository
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &messageRepository{db: tx}
}

func (r *messageRepository) Read(ctx context.Context, opts query.Options) ([]models.Message, error) {
	return readWhere[models.Message](ctx, r.db, opts)
}

// GetByID retrieves a message by its ID
func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return firstWhere[models.Message](ctx, r.db, query.Where("id", id))
}

// GetByRFC822ID retrieves a message by its RFC 822 Message-ID
func (r *messageRepository) GetByRFC822ID(ctx context.Context, rfc822ID string) (*models.Message, error) {
	return firstWhere[models.Message](ctx, r.db, query.Where("rfc822_message_id", rfc822ID))
}

// ExistingRFC822IDs returns the subset of rfc822IDs already stored
func (r *messageRepository) ExistingRFC822IDs(ctx context.Context, rfc822IDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for start := 0; start < len(rfc822IDs); start += existingIDsChunk {
		end := min(start+existingIDsChunk, len(rfc822IDs))

		var found []string
		tx, err := query.Apply(r.db.WithContext(ctx), &models.Message{}, query.Options{
			Conditions: []query.Condition{query.F("rfc822_message_id", query.In, rfc822IDs[start:end])},
		})
		if err != nil {
			return nil, err
		}
		if err := tx.Pluck("rfc822_message_id", &found).Error; err != nil {
			return nil, fmt.Errorf("failed to scan existing message ids: %w", err)
		}
		for _, id := range found {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

// Create inserts the message. It returns false, without error, when a
// message with the same RFC 822 Message-ID already exists.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) (bool, error) {
	if message.RFC822MessageID == "" {
		return false, fmt.Errorf("message id is empty: %w", ErrInvalidInput)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rfc822_message_id"}},
			DoNothing: true,
		}).
		Create(message)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if message.ID == 0 {
		return false, fmt.Errorf("message %s created without id: %w", message.RFC822MessageID, apperrors.ErrResolution)
	}
	return true, nil
}

// GetOwned returns the message only if it belongs to the vendor and folder.
// UnfiledFolderID matches a message with no folder.
func (r *messageRepository) GetOwned(ctx context.Context, id, vendorID, folderID uint) (*models.Message, error) {
	return firstWhere[models.Message](ctx, r.db,
		query.Where("id", id),
		query.Where("vendor_id", vendorID),
		inFolder(folderID),
	)
}

// inFolder matches folderID, or messages without a folder for UnfiledFolderID
func inFolder(folderID uint) query.Condition {
	if folderID == UnfiledFolderID {
		return query.F("folder_id", query.Is, nil)
	}
	return query.Where("folder_id", folderID)
}

// List returns message headers for a vendor/folder, newest first
func (r *messageRepository) List(ctx context.Context, vendorID, folderID uint, limit, offset int) ([]models.MessageHeader, int64, error) {
	conds := []query.Condition{
		query.Where("vendor_id", vendorID),
		inFolder(folderID),
	}

	var total int64
	countTx, err := query.Apply(r.db.WithContext(ctx), &models.Message{}, query.Options{Conditions: conds})
	if err != nil {
		return nil, 0, err
	}
	if err := countTx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	tx, err := query.Apply(r.db.WithContext(ctx), &models.Message{}, query.Options{
		Conditions: conds,
		OrderBy:    []query.Order{{Field: "date_received", Desc: true}, {Field: "id", Desc: true}},
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, 0, err
	}

	var headers []models.MessageHeader
	if err := tx.Find(&headers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return headers, total, nil
}

// UpdateStatus applies the non-nil fields of update. This is the only
// mutation a stored message accepts.
func (r *messageRepository) UpdateStatus(ctx context.Context, id uint, update models.MessageStatusUpdate) error {
	if update.Empty() {
		return fmt.Errorf("no status fields to update: %w", ErrInvalidInput)
	}

	values := map[string]any{}
	if update.IsRead != nil {
		values["is_read"] = *update.IsRead
	}
	if update.IsReplied != nil {
		values["is_replied"] = *update.IsReplied
	}
	if update.IsFlagged != nil {
		values["is_flagged"] = *update.IsFlagged
	}
	if update.IsForwarded != nil {
		values["is_forwarded"] = *update.IsForwarded
	}
	if update.FolderID != nil {
		ok, err := folderExists(ctx, r.db, *update.FolderID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("folder %d: %w", *update.FolderID, apperrors.ErrFolderNotFound)
		}
		values["folder_id"] = *update.FolderID
	}

	tx, err := scoped(ctx, r.db, &models.Message{}, query.Where("id", id))
	if err != nil {
		return err
	}
	result := tx.Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update message status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a message by its ID (cascade deletes parts and address maps)
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	tx, err := scoped(ctx, r.db, &models.Message{}, query.Where("id", id))
	if err != nil {
		return err
	}
	result := tx.Delete(&models.Message{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err is a repository not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
