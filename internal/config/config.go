package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileEnv names the optional config file
const ConfigFileEnv = "MAILARCHIVE_CONFIG"

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server ports
	APIPort  int
	SMTPPort int

	// SMTP intake
	SMTPEnabled        bool
	SMTPDomain         string
	SMTPAllowedDomains []string
	SMTPTLSCert        string
	SMTPTLSKey         string

	// Mail store
	ProfilesDir   string
	MboxFiles     []string
	IngestWorkers int

	// Logging
	LogLevel  string
	LogFormat string

	// Security
	APIKey         string
	AllowedOrigins string
	AppEnv         string

	// Rate Limiting
	RateLimitRequests float64
	RateLimitBurst    int
}

func defaults(v *viper.Viper) {
	v.SetDefault("api_port", "8080")
	v.SetDefault("smtp_port", "2525")
	v.SetDefault("smtp_enabled", "false")
	v.SetDefault("ingest_workers", "4")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("app_env", "development")
	v.SetDefault("rate_limit_requests", "10")
	v.SetDefault("rate_limit_burst", "20")
}

// Load reads configuration from environment variables and, when
// MAILARCHIVE_CONFIG is set, from that file. Environment wins.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadFile(v.GetString(strings.ToLower(ConfigFileEnv)))
}

// LoadFile reads configuration from path (optional) and the environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	var err error

	// Required: DATABASE_URL
	cfg.DatabaseURL = v.GetString("database_url")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	if cfg.APIPort, err = intValue(v, "api_port"); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intValue(v, "smtp_port"); err != nil {
		return nil, err
	}
	if cfg.SMTPEnabled, err = boolValue(v, "smtp_enabled"); err != nil {
		return nil, err
	}
	cfg.SMTPDomain = v.GetString("smtp_domain")
	cfg.SMTPAllowedDomains = splitList(v.GetString("smtp_allowed_domains"))
	cfg.SMTPTLSCert = v.GetString("smtp_tls_cert")
	cfg.SMTPTLSKey = v.GetString("smtp_tls_key")

	if cfg.IngestWorkers, err = intValue(v, "ingest_workers"); err != nil {
		return nil, err
	}

	cfg.ProfilesDir = v.GetString("mailstore_profiles_dir")
	cfg.MboxFiles = splitList(v.GetString("mailstore_mbox_files"))

	cfg.LogLevel = strings.ToLower(v.GetString("log_level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log_format"))

	// Security configuration
	cfg.APIKey = v.GetString("api_key")
	cfg.AllowedOrigins = v.GetString("allowed_origins")
	cfg.AppEnv = v.GetString("app_env")

	// Rate limiting configuration; bad values keep the defaults
	cfg.RateLimitRequests = 10.0
	if rps, err := strconv.ParseFloat(v.GetString("rate_limit_requests"), 64); err == nil {
		cfg.RateLimitRequests = rps
	}
	cfg.RateLimitBurst = 20
	if burst, err := strconv.Atoi(v.GetString("rate_limit_burst")); err == nil {
		cfg.RateLimitBurst = burst
	}

	return cfg, nil
}

func intValue(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", strings.ToUpper(key), err)
	}
	return n, nil
}

func boolValue(v *viper.Viper, key string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean: %w", strings.ToUpper(key), err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTPPort must be between 1 and 65535")
	}
	if c.IngestWorkers <= 0 {
		return fmt.Errorf("IngestWorkers must be positive")
	}
	if (c.SMTPTLSCert == "") != (c.SMTPTLSKey == "") {
		return fmt.Errorf("SMTP_TLS_CERT and SMTP_TLS_KEY must be set together")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LogFormat must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Origins returns the configured CORS origins
func (c *Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// HasMailStore reports whether a mail store to sync from is configured
func (c *Config) HasMailStore() bool {
	return c.ProfilesDir != "" || len(c.MboxFiles) > 0
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production")
	}

	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	// Check for wildcard in production
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.Int("smtp_port", c.SMTPPort),
		slog.Bool("smtp_enabled", c.SMTPEnabled),
		slog.String("smtp_domain", c.SMTPDomain),
		slog.Bool("smtp_tls", c.SMTPTLSCert != ""),
		slog.String("profiles_dir", c.ProfilesDir),
		slog.Int("mbox_files", len(c.MboxFiles)),
		slog.Int("ingest_workers", c.IngestWorkers),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.String("app_env", c.AppEnv),
		slog.Bool("api_key_set", c.APIKey != ""),
		slog.Bool("allowed_origins_set", c.AllowedOrigins != ""),
		slog.Float64("rate_limit_rps", c.RateLimitRequests),
		slog.Int("rate_limit_burst", c.RateLimitBurst),
	)
}
