package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"gorm.io/gorm"
)

// RuleRepository manages the priority rules: addresses and dictionary words
// whose mail is important. Creating a rule that already exists is a
// conflict, not a no-op.
type RuleRepository interface {
	ListAddressRules(ctx context.Context) ([]models.AddressRule, error)
	CreateAddressRule(ctx context.Context, email string, priority int) (*models.AddressRule, error)
	UpdateAddressRule(ctx context.Context, id uint, priority int) error
	DeleteAddressRule(ctx context.Context, id uint) error

	ListWordRules(ctx context.Context) ([]models.PriorityWord, error)
	CreateWordRule(ctx context.Context, word string, priority int) (*models.PriorityWord, error)
	UpdateWordRule(ctx context.Context, id uint, priority int) error
	DeleteWordRule(ctx context.Context, id uint) error

	WithTx(tx *gorm.DB) RuleRepository
}

// ruleRepository implements RuleRepository using GORM
type ruleRepository struct {
	db        *gorm.DB
	addresses AddressRepository
}

// NewRuleRepository creates a new RuleRepository instance
func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db, addresses: NewAddressRepository(db)}
}

func (r *ruleRepository) WithTx(tx *gorm.DB) RuleRepository {
	return NewRuleRepository(tx)
}

// ListAddressRules returns every address rule with its address, by id
func (r *ruleRepository) ListAddressRules(ctx context.Context) ([]models.AddressRule, error) {
	var persons []models.PriorityPerson
	err := r.db.WithContext(ctx).Preload("Address").Order("id").Find(&persons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list address rules: %w", err)
	}

	rules := make([]models.AddressRule, 0, len(persons))
	for _, p := range persons {
		rule := models.AddressRule{ID: p.ID, Priority: p.Priority}
		if p.Address != nil {
			rule.Address = p.Address.EmailAddress
			rule.Name = p.Address.DisplayName
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// CreateAddressRule registers the address if needed and gives it a rule.
// An address that already has a rule yields ErrDuplicateEntry.
func (r *ruleRepository) CreateAddressRule(ctx context.Context, email string, priority int) (*models.AddressRule, error) {
	if err := checkPriority(priority); err != nil {
		return nil, err
	}
	addr, err := r.addresses.FindOrCreate(ctx, email, nil)
	if err != nil {
		return nil, err
	}

	_, err = firstWhere[models.PriorityPerson](ctx, r.db, query.Where("address_id", addr.ID))
	if err == nil {
		return nil, fmt.Errorf("address %s already has a rule: %w", addr.EmailAddress, ErrDuplicateEntry)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	person := &models.PriorityPerson{AddressID: addr.ID, Priority: priority}
	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("address %s already has a rule: %w", addr.EmailAddress, ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create address rule: %w", err)
	}

	return &models.AddressRule{
		ID:       person.ID,
		Address:  addr.EmailAddress,
		Name:     addr.DisplayName,
		Priority: person.Priority,
	}, nil
}

func (r *ruleRepository) UpdateAddressRule(ctx context.Context, id uint, priority int) error {
	return r.updatePriority(ctx, &models.PriorityPerson{}, id, priority)
}

func (r *ruleRepository) DeleteAddressRule(ctx context.Context, id uint) error {
	return r.delete(ctx, &models.PriorityPerson{}, id)
}

// ListWordRules returns every dictionary rule, by id
func (r *ruleRepository) ListWordRules(ctx context.Context) ([]models.PriorityWord, error) {
	return readWhere[models.PriorityWord](ctx, r.db, query.Options{OrderBy: []query.Order{{Field: "id"}}})
}

// CreateWordRule stores a normalized dictionary word. A word that already
// has a rule yields ErrDuplicateEntry.
func (r *ruleRepository) CreateWordRule(ctx context.Context, word string, priority int) (*models.PriorityWord, error) {
	word = models.NormalizeWord(word)
	if word == "" {
		return nil, fmt.Errorf("word is empty: %w", ErrInvalidInput)
	}
	if err := checkPriority(priority); err != nil {
		return nil, err
	}

	_, err := firstWhere[models.PriorityWord](ctx, r.db, query.Where("word", word))
	if err == nil {
		return nil, fmt.Errorf("word %q already has a rule: %w", word, ErrDuplicateEntry)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rule := &models.PriorityWord{Word: word, Priority: priority}
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("word %q already has a rule: %w", word, ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to create word rule: %w", err)
	}
	return rule, nil
}

func (r *ruleRepository) UpdateWordRule(ctx context.Context, id uint, priority int) error {
	return r.updatePriority(ctx, &models.PriorityWord{}, id, priority)
}

func (r *ruleRepository) DeleteWordRule(ctx context.Context, id uint) error {
	return r.delete(ctx, &models.PriorityWord{}, id)
}

func (r *ruleRepository) updatePriority(ctx context.Context, model any, id uint, priority int) error {
	if err := checkPriority(priority); err != nil {
		return err
	}
	tx, err := scoped(ctx, r.db, model, query.Where("id", id))
	if err != nil {
		return err
	}
	result := tx.Update("priority", priority)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule priority: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rule %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ruleRepository) delete(ctx context.Context, model any, id uint) error {
	tx, err := scoped(ctx, r.db, model, query.Where("id", id))
	if err != nil {
		return err
	}
	result := tx.Delete(model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rule %d: %w", id, ErrNotFound)
	}
	return nil
}

func checkPriority(priority int) error {
	if !models.ValidPriority(priority) {
		return fmt.Errorf("priority must be %d-%d: %w", models.MinPriority, models.MaxPriority, ErrInvalidInput)
	}
	return nil
}
