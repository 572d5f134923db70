package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"gorm.io/gorm"
)

// MockVendorRepository implements repository.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Read(ctx context.Context, opts query.Options) ([]models.Vendor, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) GetID(ctx context.Context, name string) (uint, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockVendorRepository) Register(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVendorRepository) Ensure(ctx context.Context, name string) (uint, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint), args.Error(1)
}

// List retrieves all vendors
func (m *MockVendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vendor), args.Error(1)
}

func (m *MockVendorRepository) WithTx(tx *gorm.DB) repository.VendorRepository {
	return m
}

// MockFolderRepository implements repository.FolderRepository
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Read(ctx context.Context, opts query.Options) ([]models.Folder, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Folder), args.Error(1)
}

func (m *MockFolderRepository) GetID(ctx context.Context, name string) (uint, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockFolderRepository) EnsureSystemFolders(ctx context.Context, folders []models.SystemFolder) error {
	args := m.Called(ctx, folders)
	return args.Error(0)
}

// List retrieves all folders
func (m *MockFolderRepository) List(ctx context.Context) ([]models.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Folder), args.Error(1)
}

func (m *MockFolderRepository) WithTx(tx *gorm.DB) repository.FolderRepository {
	return m
}

// MockMessageRepository implements repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Read(ctx context.Context, opts query.Options) ([]models.Message, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// GetByID retrieves a message by its ID
func (m *MockMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByRFC822ID(ctx context.Context, rfc822ID string) (*models.Message, error) {
	args := m.Called(ctx, rfc822ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ExistingRFC822IDs(ctx context.Context, rfc822IDs []string) (map[string]struct{}, error) {
	args := m.Called(ctx, rfc822IDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageRepository) GetOwned(ctx context.Context, id, vendorID, folderID uint) (*models.Message, error) {
	args := m.Called(ctx, id, vendorID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// List retrieves message headers of a vendor folder with pagination
func (m *MockMessageRepository) List(ctx context.Context, vendorID, folderID uint, limit, offset int) ([]models.MessageHeader, int64, error) {
	args := m.Called(ctx, vendorID, folderID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.MessageHeader), args.Get(1).(int64), args.Error(2)
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id uint, update models.MessageStatusUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// Delete deletes a message by its ID
func (m *MockMessageRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageRepository) WithTx(tx *gorm.DB) repository.MessageRepository {
	return m
}

// MockRuleRepository implements repository.RuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) ListAddressRules(ctx context.Context) ([]models.AddressRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AddressRule), args.Error(1)
}

func (m *MockRuleRepository) CreateAddressRule(ctx context.Context, email string, priority int) (*models.AddressRule, error) {
	args := m.Called(ctx, email, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AddressRule), args.Error(1)
}

func (m *MockRuleRepository) UpdateAddressRule(ctx context.Context, id uint, priority int) error {
	return m.Called(ctx, id, priority).Error(0)
}

func (m *MockRuleRepository) DeleteAddressRule(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRuleRepository) ListWordRules(ctx context.Context) ([]models.PriorityWord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriorityWord), args.Error(1)
}

func (m *MockRuleRepository) CreateWordRule(ctx context.Context, word string, priority int) (*models.PriorityWord, error) {
	args := m.Called(ctx, word, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriorityWord), args.Error(1)
}

func (m *MockRuleRepository) UpdateWordRule(ctx context.Context, id uint, priority int) error {
	return m.Called(ctx, id, priority).Error(0)
}

func (m *MockRuleRepository) DeleteWordRule(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRuleRepository) WithTx(tx *gorm.DB) repository.RuleRepository {
	return m
}
