package smtp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-smtp"
	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/ingest"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/validator"
)

// Relay limits
const (
	DefaultMaxMessageSize = 25 * 1024 * 1024 // 25 MB
	DefaultMaxRecipients  = 100
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxLineLength  = 2000
	DefaultSaveTimeout    = 30 * time.Second
)

// DefaultFolder receives every relayed message
const DefaultFolder = "inbox"

// Backend implements the go-smtp Backend interface. Accepted messages are
// parsed and handed to the ingestion pipeline under the smtp vendor.
type Backend struct {
	ingest         ingest.Service
	folder         string
	allowedDomains map[string]struct{}
	saveTimeout    time.Duration
	logger         *slog.Logger
}

// BackendConfig holds configuration for the SMTP backend
type BackendConfig struct {
	Ingest ingest.Service
	// Folder defaults to DefaultFolder
	Folder string
	// AllowedDomains restricts recipients; empty accepts any domain
	AllowedDomains []string
	SaveTimeout    time.Duration
	Logger         *slog.Logger
}

// NewBackend creates a new SMTP backend
func NewBackend(cfg *BackendConfig) *Backend {
	b := &Backend{
		ingest:      cfg.Ingest,
		folder:      cfg.Folder,
		saveTimeout: cfg.SaveTimeout,
		logger:      cfg.Logger,
	}
	if b.folder == "" {
		b.folder = DefaultFolder
	}
	if b.saveTimeout <= 0 {
		b.saveTimeout = DefaultSaveTimeout
	}
	if len(cfg.AllowedDomains) > 0 {
		b.allowedDomains = make(map[string]struct{}, len(cfg.AllowedDomains))
		for _, d := range cfg.AllowedDomains {
			domain, err := validator.Domain(d)
			if err != nil {
				if b.logger != nil {
					b.logger.Warn("ignoring allowed domain", slog.String("domain", d), slog.String("error", err.Error()))
				}
				continue
			}
			b.allowedDomains[domain] = struct{}{}
		}
	}
	return b
}

// Vendor returns the vendor tag of relayed messages
func (b *Backend) Vendor() string {
	return models.VendorSMTP
}

// NewSession creates a new SMTP session
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	if b.logger != nil {
		b.logger.Info("new SMTP connection", slog.String("remote_addr", c.Conn().RemoteAddr().String()))
	}
	return NewSession(b), nil
}

func (b *Backend) acceptsDomain(domain string) bool {
	if b.allowedDomains == nil {
		return true
	}
	_, ok := b.allowedDomains[domain]
	return ok
}

// ServerConfig holds the listener settings. Zero limits fall back to the
// package defaults.
type ServerConfig struct {
	Addr           string
	Domain         string
	MaxMessageSize int64
	MaxRecipients  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TLSConfig      *tls.Config
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.Domain == "" {
		c.Domain = "localhost"
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.MaxRecipients <= 0 {
		c.MaxRecipients = DefaultMaxRecipients
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	return c
}

// NewServer builds the relay listener for backend. STARTTLS is offered
// only when cfg carries a TLS config.
func NewServer(backend *Backend, cfg ServerConfig) *smtp.Server {
	cfg = cfg.withDefaults()

	s := smtp.NewServer(backend)
	s.Addr = cfg.Addr
	s.Domain = cfg.Domain
	s.MaxMessageBytes = cfg.MaxMessageSize
	s.MaxRecipients = cfg.MaxRecipients
	s.MaxLineLength = DefaultMaxLineLength
	s.ReadTimeout = cfg.ReadTimeout
	s.WriteTimeout = cfg.WriteTimeout
	s.TLSConfig = cfg.TLSConfig
	return s
}

// NewServerConfig builds the listener settings from the process config.
// certFile and keyFile enable STARTTLS and must be given together.
func NewServerConfig(port int, domain, certFile, keyFile string) (ServerConfig, error) {
	cfg := ServerConfig{Addr: fmt.Sprintf(":%d", port), Domain: domain}

	switch {
	case certFile == "" && keyFile == "":
		return cfg.withDefaults(), nil
	case certFile == "" || keyFile == "":
		return ServerConfig{}, fmt.Errorf("SMTP TLS needs both a certificate and a key: %w", apperrors.ErrInvalidInput)
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("failed to load SMTP TLS key pair: %w", err)
	}
	cfg.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return cfg.withDefaults(), nil
}
