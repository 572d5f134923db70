package repository

import (
	"context"
	"fmt"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageAddressMapRepository links messages to addresses by role
type MessageAddressMapRepository interface {
	Create(ctx context.Context, m *models.MessageAddressMap) (bool, error)
	ListByMessage(ctx context.Context, messageID uint) ([]models.MessageAddressMap, error)
	WithTx(tx *gorm.DB) MessageAddressMapRepository
}

// messageAddressMapRepository implements MessageAddressMapRepository using GORM
type messageAddressMapRepository struct {
	db *gorm.DB
}

// NewMessageAddressMapRepository creates a new MessageAddressMapRepository instance
func NewMessageAddressMapRepository(db *gorm.DB) MessageAddressMapRepository {
	return &messageAddressMapRepository{db: db}
}

func (r *messageAddressMapRepository) WithTx(tx *gorm.DB) MessageAddressMapRepository {
	return &messageAddressMapRepository{db: tx}
}

// Create inserts the mapping. It returns false when the same
// (message, address, role) row already exists.
func (r *messageAddressMapRepository) Create(ctx context.Context, m *models.MessageAddressMap) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create address map: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByMessage returns the address mappings of a message
func (r *messageAddressMapRepository) ListByMessage(ctx context.Context, messageID uint) ([]models.MessageAddressMap, error) {
	return readWhere[models.MessageAddressMap](ctx, r.db, query.Options{
		Conditions: []query.Condition{query.Where("message_id", messageID)},
		OrderBy:    []query.Order{{Field: "address_type"}, {Field: "address_id"}},
	})
}
