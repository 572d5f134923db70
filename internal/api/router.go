// Package api wires the HTTP surface of the mail archive.
package api

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/handlers"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/middleware"
	"github.com/welldanyogia/webrana-mailarchive/internal/body"
	"github.com/welldanyogia/webrana-mailarchive/internal/ingest"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB           *gorm.DB
	Repositories repository.Repositories
	Ingest       ingest.Service
	Bodies       body.Service
	// Sources are the mail stores reachable through the sync route
	Sources []ingest.MailSource
	Logger  *slog.Logger

	// Security configuration
	APIKey         string   // empty disables authentication
	AllowedOrigins []string // CORS origins
	AppEnv         string
	RateLimit      float64 // requests per second per IP; 0 disables limiting
	RateBurst      int
}

// NewRouter creates and configures the Echo router with all routes. ctx
// bounds background work such as rate limiter eviction.
func NewRouter(ctx context.Context, cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.SecureCORS(cfg.AllowedOrigins, cfg.AppEnv))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(ctx, cfg.RateLimit, cfg.RateBurst, cfg.Logger))
	}
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	repos := cfg.Repositories
	if repos.Messages == nil {
		repos = repository.NewRepositories(cfg.DB)
	}

	healthHandler := handlers.NewHealthHandler(cfg.DB, len(cfg.Sources) > 0)
	vendorHandler := handlers.NewVendorHandler(repos.Vendors, cfg.Ingest, cfg.Sources...)
	folderHandler := handlers.NewFolderHandler(repos.Folders)
	messageHandler := handlers.NewMessageHandler(repos.Messages, cfg.Bodies)
	ruleHandler := handlers.NewRuleHandler(repos.Rules)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	api := e.Group("/api")
	api.Use(middleware.APIKeyAuth(cfg.APIKey, cfg.Logger))

	vendors := api.Group("/vendors")
	vendors.GET("", vendorHandler.List)
	vendors.POST("/:vendor/sync", vendorHandler.Sync)

	api.GET("/folders", folderHandler.List)

	// Reading is scoped to a vendor folder
	scoped := vendors.Group("/:vendor_id/folders/:folder_id/messages")
	scoped.GET("", messageHandler.List)
	scoped.GET("/:message_id/body", messageHandler.Body)
	scoped.GET("/:message_id/parts/:part_id", messageHandler.Part)

	messages := api.Group("/messages")
	messages.PATCH("/:id/status", messageHandler.UpdateStatus)
	messages.DELETE("/:id", messageHandler.Delete)

	rules := api.Group("/rules")
	rules.GET("/addresses", ruleHandler.ListAddresses)
	rules.POST("/addresses", ruleHandler.CreateAddress)
	rules.PATCH("/addresses/:id", ruleHandler.UpdateAddress)
	rules.DELETE("/addresses/:id", ruleHandler.DeleteAddress)
	rules.GET("/dictionaries", ruleHandler.ListWords)
	rules.POST("/dictionaries", ruleHandler.CreateWord)
	rules.PATCH("/dictionaries/:id", ruleHandler.UpdateWord)
	rules.DELETE("/dictionaries/:id", ruleHandler.DeleteWord)

	return e
}
