package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
)

type RuleRepositoryTestSuite struct {
	repoSuite
	repo RuleRepository
}

func (s *RuleRepositoryTestSuite) SetupTest() {
	s.repoSuite.SetupTest()
	s.repo = NewRuleRepository(s.db)
}

func TestRuleRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RuleRepositoryTestSuite))
}

// ==================== Address Rule Tests ====================

func (s *RuleRepositoryTestSuite) TestCreateAddressRule_UsesExistingAddress() {
	// Arrange
	name := "Alice Sender"
	addr, err := NewAddressRepository(s.db).FindOrCreate(s.ctx, "alice@example.com", &name)
	require.NoError(s.T(), err)

	// Act
	rule, err := s.repo.CreateAddressRule(s.ctx, "  ALICE@example.com ", 1)

	// Assert
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), rule.ID)
	assert.Equal(s.T(), "alice@example.com", rule.Address)
	require.NotNil(s.T(), rule.Name)
	assert.Equal(s.T(), "Alice Sender", *rule.Name)

	var person models.PriorityPerson
	require.NoError(s.T(), s.db.First(&person, rule.ID).Error)
	assert.Equal(s.T(), addr.ID, person.AddressID)
}

func (s *RuleRepositoryTestSuite) TestCreateAddressRule_RegistersUnknownAddress() {
	rule, err := s.repo.CreateAddressRule(s.ctx, "new@example.com", 2)
	require.NoError(s.T(), err)

	addr, err := NewAddressRepository(s.db).FindByEmail(s.ctx, "new@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "new@example.com", addr.EmailAddress)
	assert.Nil(s.T(), rule.Name)
}

func (s *RuleRepositoryTestSuite) TestCreateAddressRule_TwiceIsConflict() {
	_, err := s.repo.CreateAddressRule(s.ctx, "bob@example.com", 1)
	require.NoError(s.T(), err)

	_, err = s.repo.CreateAddressRule(s.ctx, "Bob@Example.com", 3)

	assert.ErrorIs(s.T(), err, ErrDuplicateEntry)
	var count int64
	s.db.Model(&models.PriorityPerson{}).Count(&count)
	assert.Equal(s.T(), int64(1), count)
}

func (s *RuleRepositoryTestSuite) TestCreateAddressRule_InvalidInput() {
	_, err := s.repo.CreateAddressRule(s.ctx, "not-an-address", 1)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	_, err = s.repo.CreateAddressRule(s.ctx, "carol@example.com", 0)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	_, err = s.repo.CreateAddressRule(s.ctx, "carol@example.com", models.MaxPriority+1)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)
}

func (s *RuleRepositoryTestSuite) TestListAddressRules() {
	_, err := s.repo.CreateAddressRule(s.ctx, "b@example.com", 2)
	require.NoError(s.T(), err)
	_, err = s.repo.CreateAddressRule(s.ctx, "a@example.com", 1)
	require.NoError(s.T(), err)

	rules, err := s.repo.ListAddressRules(s.ctx)

	require.NoError(s.T(), err)
	require.Len(s.T(), rules, 2)
	assert.Equal(s.T(), "b@example.com", rules[0].Address)
	assert.Equal(s.T(), 2, rules[0].Priority)
	assert.Equal(s.T(), "a@example.com", rules[1].Address)
}

func (s *RuleRepositoryTestSuite) TestListAddressRules_Empty() {
	rules, err := s.repo.ListAddressRules(s.ctx)

	require.NoError(s.T(), err)
	assert.NotNil(s.T(), rules)
	assert.Empty(s.T(), rules)
}

func (s *RuleRepositoryTestSuite) TestUpdateAndDeleteAddressRule() {
	rule, err := s.repo.CreateAddressRule(s.ctx, "dave@example.com", 1)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.UpdateAddressRule(s.ctx, rule.ID, 3))
	rules, err := s.repo.ListAddressRules(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, rules[0].Priority)

	require.NoError(s.T(), s.repo.DeleteAddressRule(s.ctx, rule.ID))
	assert.ErrorIs(s.T(), s.repo.DeleteAddressRule(s.ctx, rule.ID), ErrNotFound)

	// the address itself stays
	_, err = NewAddressRepository(s.db).FindByEmail(s.ctx, "dave@example.com")
	assert.NoError(s.T(), err)
}

func (s *RuleRepositoryTestSuite) TestUpdateAddressRule_Errors() {
	assert.ErrorIs(s.T(), s.repo.UpdateAddressRule(s.ctx, 999, 1), ErrNotFound)
	assert.ErrorIs(s.T(), s.repo.UpdateAddressRule(s.ctx, 999, 7), ErrInvalidInput)
}

// ==================== Word Rule Tests ====================

func (s *RuleRepositoryTestSuite) TestCreateWordRule_Normalizes() {
	rule, err := s.repo.CreateWordRule(s.ctx, "  Invoice ", 2)

	require.NoError(s.T(), err)
	assert.NotZero(s.T(), rule.ID)
	assert.Equal(s.T(), "invoice", rule.Word)
	assert.Equal(s.T(), 2, rule.Priority)
}

func (s *RuleRepositoryTestSuite) TestCreateWordRule_TwiceIsConflict() {
	_, err := s.repo.CreateWordRule(s.ctx, "請求書", 1)
	require.NoError(s.T(), err)

	_, err = s.repo.CreateWordRule(s.ctx, " 請求書", 2)

	assert.ErrorIs(s.T(), err, ErrDuplicateEntry)
}

func (s *RuleRepositoryTestSuite) TestCreateWordRule_InvalidInput() {
	_, err := s.repo.CreateWordRule(s.ctx, "   ", 1)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	_, err = s.repo.CreateWordRule(s.ctx, "urgent", -1)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)
}

func (s *RuleRepositoryTestSuite) TestWordRuleLifecycle() {
	first, err := s.repo.CreateWordRule(s.ctx, "urgent", 1)
	require.NoError(s.T(), err)
	_, err = s.repo.CreateWordRule(s.ctx, "contract", 2)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.UpdateWordRule(s.ctx, first.ID, 3))
	require.NoError(s.T(), s.repo.DeleteWordRule(s.ctx, first.ID))

	rules, err := s.repo.ListWordRules(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), rules, 1)
	assert.Equal(s.T(), "contract", rules[0].Word)

	assert.ErrorIs(s.T(), s.repo.UpdateWordRule(s.ctx, first.ID, 1), ErrNotFound)
	assert.ErrorIs(s.T(), s.repo.DeleteWordRule(s.ctx, first.ID), ErrNotFound)
}

func (s *RuleRepositoryTestSuite) TestWithTx_RollbackDiscardsRule() {
	tx := s.db.Begin()
	_, err := s.repo.WithTx(tx).CreateWordRule(s.ctx, "draft", 1)
	require.NoError(s.T(), err)
	require.NoError(s.T(), tx.Rollback().Error)

	rules, err := s.repo.ListWordRules(s.ctx)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), rules)
}
