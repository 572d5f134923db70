//go:build integration

package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/welldanyogia/webrana-mailarchive/internal/database"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresSuite starts one PostgreSQL container per suite and truncates
// the archive tables before each test
type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	db        *gorm.DB
	repos     repository.Repositories
}

// SetupSuite starts PostgreSQL container and migrates the schema
func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "mailarchive_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	url := fmt.Sprintf("postgres://test:test@%s:%s/mailarchive_test?sslmode=disable", host, port.Port())
	db, err := database.Connect(url, logger.Silent)
	require.NoError(s.T(), err)
	require.NoError(s.T(), database.Migrate(db))
	s.db = db
	s.repos = repository.NewRepositories(db)
}

// TearDownSuite closes the database and stops the container
func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest empties every table and reseeds the system folders
func (s *PostgresSuite) SetupTest() {
	require.NoError(s.T(), s.db.Exec(
		"TRUNCATE message_address_map, message_part, message, address, folder, vendor RESTART IDENTITY CASCADE").Error)
	require.NoError(s.T(), s.repos.Folders.EnsureSystemFolders(s.ctx, models.DefaultSystemFolders))
}
