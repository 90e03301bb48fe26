// ABOUTME: Configuration for the CRM backend connection and local storage
// ABOUTME: Merges .env, an XDG config file and CRMDESK_* environment overrides
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG directories and the log prefix.
	AppName = "crmdesk"

	// ConfigFileName is where settings are stored under the XDG config dir.
	ConfigFileName = "config.json"

	// DefaultRequestTimeout bounds a single backend request.
	DefaultRequestTimeout = 30 * time.Second
)

// ErrNotConfigured is returned by Validate when the backend is unknown.
var ErrNotConfigured = errors.New("backend not configured: set CRMDESK_API_URL and CRMDESK_API_TOKEN or run 'crmdesk login'")

// Config holds backend and local storage settings.
type Config struct {
	// APIURL is the backend base URL, e.g. https://crm.example.com/api
	APIURL string `json:"api_url"`

	// APIToken is the bearer token sent with every request
	APIToken string `json:"api_token,omitempty"`

	// RequestTimeout bounds each request; zero disables the timeout
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	// SnapshotCache persists fetched lists to Charm KV
	SnapshotCache bool `json:"snapshot_cache"`

	// DBPath is the SQLite activity log location
	DBPath string `json:"db_path,omitempty"`
}

// DefaultConfig returns a config with every optional field filled.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       "info",
		DBPath:         DefaultDBPath(),
	}
}

// Dir returns the XDG config directory for the app.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// DefaultDBPath returns the XDG data path for the activity log.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "activity.db")
}

// Load reads .env from the working directory, then the config file, then
// applies environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", Path(), err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CRMDESK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("CRMDESK_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("CRMDESK_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CRMDESK_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRMDESK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CRMDESK_CACHE"); v != "" {
		cfg.SnapshotCache = v == "true" || v == "1"
	}
	if v := os.Getenv("CRMDESK_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	return nil
}

// Validate checks that the backend URL and token are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" || strings.TrimSpace(c.APIToken) == "" {
		return ErrNotConfigured
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_url %q: scheme must be http or https", c.APIURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}

// Save writes the config file with owner-only permissions.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
