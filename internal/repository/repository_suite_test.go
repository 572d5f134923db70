package repository

import (
	"context"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/welldanyogia/webrana-mailarchive/internal/database"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"gorm.io/gorm"
)

// repoSuite gives each test a fresh migrated in-memory database
type repoSuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB
}

func (s *repoSuite) SetupTest() {
	db, err := database.NewTestDB()
	require.NoError(s.T(), err)
	s.db = db
	s.ctx = context.Background()
}

func (s *repoSuite) TearDownTest() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
}

func (s *repoSuite) createVendor(name string) *models.Vendor {
	v := &models.Vendor{Name: name}
	require.NoError(s.T(), s.db.Create(v).Error)
	return v
}

func (s *repoSuite) seedFolders() {
	require.NoError(s.T(), NewFolderRepository(s.db).EnsureSystemFolders(s.ctx, models.DefaultSystemFolders))
}
