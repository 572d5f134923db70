package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/welldanyogia/webrana-mailarchive/internal/body"
	"github.com/welldanyogia/webrana-mailarchive/internal/config"
	"github.com/welldanyogia/webrana-mailarchive/internal/database"
	"github.com/welldanyogia/webrana-mailarchive/internal/ingest"
	"github.com/welldanyogia/webrana-mailarchive/internal/logger"
	"github.com/welldanyogia/webrana-mailarchive/internal/mailparse"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"gorm.io/gorm"
)

// app holds the wiring shared by every command
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *gorm.DB
	repos   repository.Repositories
	ingest  ingest.Service
	bodies  body.Service
	sources []ingest.MailSource
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, fmt.Errorf("invalid production configuration: %w", err)
		}
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(log)
	cfg.LogConfig(log)

	db, err := database.Connect(cfg.DatabaseURL, database.GormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connected", slog.String("url", logger.RedactURL(cfg.DatabaseURL)))

	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	repos := repository.NewRepositories(db)
	if err := repos.Folders.EnsureSystemFolders(ctx, models.DefaultSystemFolders); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to seed folders: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		repos:  repos,
		ingest: ingest.NewService(db, log),
		bodies: body.NewService(repos, log),
	}
	if cfg.HasMailStore() {
		a.sources = append(a.sources, mailparse.NewClient(mailparse.Config{
			ProfilesDir:  cfg.ProfilesDir,
			MailboxFiles: cfg.MboxFiles,
			Workers:      cfg.IngestWorkers,
		}, log))
	}
	return a, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Error("failed to close database", slog.String("error", err.Error()))
	}
}
