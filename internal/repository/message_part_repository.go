package repository

import (
	"context"
	"fmt"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
)

// MessagePartRepository stores and reads the MIME part tree of messages
type MessagePartRepository interface {
	Create(ctx context.Context, part *models.MessagePart) error
	ListByMessage(ctx context.Context, messageID uint) ([]models.MessagePart, error)
	GetForMessage(ctx context.Context, messageID, partID uint) (*models.MessagePart, error)
	WithTx(tx *gorm.DB) MessagePartRepository
}

// messagePartRepository implements MessagePartRepository using GORM
type messagePartRepository struct {
	db *gorm.DB
}

// NewMessagePartRepository creates a new MessagePartRepository instance
func NewMessagePartRepository(db *gorm.DB) MessagePartRepository {
	return &messagePartRepository{db: db}
}

func (r *messagePartRepository) WithTx(tx *gorm.DB) MessagePartRepository {
	return &messagePartRepository{db: tx}
}

// Create inserts a part. Parts are never updated afterwards.
func (r *messagePartRepository) Create(ctx context.Context, part *models.MessagePart) error {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return fmt.Errorf("failed to create message part %d: %w", part.PartOrder, err)
	}
	return nil
}

// ListByMessage returns all parts of a message in part order
func (r *messagePartRepository) ListByMessage(ctx context.Context, messageID uint) ([]models.MessagePart, error) {
	return readWhere[models.MessagePart](ctx, r.db, query.Options{
		Conditions: []query.Condition{query.Where("message_id", messageID)},
		OrderBy:    []query.Order{{Field: "part_order"}, {Field: "id"}},
	})
}

// GetForMessage returns the part only if it belongs to the message
func (r *messagePartRepository) GetForMessage(ctx context.Context, messageID, partID uint) (*models.MessagePart, error) {
	return firstWhere[models.MessagePart](ctx, r.db,
		query.Where("id", partID),
		query.Where("message_id", messageID),
	)
}
