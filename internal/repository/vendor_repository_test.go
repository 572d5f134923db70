package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/query"
)

type VendorRepositoryTestSuite struct {
	repoSuite
	repo VendorRepository
}

func (s *VendorRepositoryTestSuite) SetupTest() {
	s.repoSuite.SetupTest()
	s.repo = NewVendorRepository(s.db)
}

func TestVendorRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(VendorRepositoryTestSuite))
}

// ==================== Register Tests ====================

func (s *VendorRepositoryTestSuite) TestRegister_CreatesCanonicalName() {
	// Act
	err := s.repo.Register(s.ctx, "  Thunderbird ")

	// Assert
	require.NoError(s.T(), err)
	vendors, err := s.repo.List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), vendors, 1)
	assert.Equal(s.T(), "thunderbird", vendors[0].Name)
}

func (s *VendorRepositoryTestSuite) TestRegister_IsIdempotent() {
	for i := 0; i < 3; i++ {
		require.NoError(s.T(), s.repo.Register(s.ctx, "THUNDERBIRD"))
	}

	var count int64
	s.db.Model(&models.Vendor{}).Count(&count)
	assert.Equal(s.T(), int64(1), count)
}

func (s *VendorRepositoryTestSuite) TestRegister_EmptyName_ReturnsInvalidInput() {
	err := s.repo.Register(s.ctx, "   ")
	assert.ErrorIs(s.T(), err, ErrInvalidInput)
}

// ==================== GetID / Ensure Tests ====================

func (s *VendorRepositoryTestSuite) TestGetID_NotFound() {
	_, err := s.repo.GetID(s.ctx, "smtp")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *VendorRepositoryTestSuite) TestEnsure_ReturnsSameIDForAnyCase() {
	// Arrange
	first, err := s.repo.Ensure(s.ctx, "Thunderbird")
	require.NoError(s.T(), err)

	// Act
	second, err := s.repo.Ensure(s.ctx, "thunderbird")

	// Assert
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), first)
	assert.Equal(s.T(), first, second)
}

func (s *VendorRepositoryTestSuite) TestRead_WithConditions() {
	s.createVendor("thunderbird")
	s.createVendor("smtp")

	vendors, err := s.repo.Read(s.ctx, query.Options{
		Conditions: []query.Condition{query.F("name", query.Like, "thunder%")},
	})

	require.NoError(s.T(), err)
	require.Len(s.T(), vendors, 1)
	assert.Equal(s.T(), "thunderbird", vendors[0].Name)
}

func (s *VendorRepositoryTestSuite) TestRead_UnknownField_ReturnsInvalidInput() {
	_, err := s.repo.Read(s.ctx, query.Options{
		Conditions: []query.Condition{query.Where("label", "x")},
	})
	assert.ErrorIs(s.T(), err, ErrInvalidInput)
}
