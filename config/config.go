// ABOUTME: Application configuration stored at XDG config paths
// ABOUTME: JSON file defaults, .env loading, and YONGU_* environment overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendLocal = "local"

	SlotEngineCharm  = "charm"
	SlotEngineSQLite = "sqlite"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultQuotaBytes  = 5 << 20
	DefaultDateLayout  = "1/2/2006"
)

// Config holds persistent settings for the yongu binaries.
type Config struct {
	Backend      string `json:"backend"`
	DocumentPath string `json:"document_path,omitempty"`
	SlotEngine   string `json:"slot_engine"`
	SQLitePath   string `json:"sqlite_path,omitempty"`
	QuotaBytes   int    `json:"quota_bytes"`
	GeminiModel  string `json:"gemini_model"`
	LogLevel     string `json:"log_level"`
	DateLayout   string `json:"date_layout"`

	// GeminiAPIKey only ever comes from the environment.
	GeminiAPIKey string `json:"-"`

	path string
}

// Dir returns the XDG config directory for yongu.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "yongu")
}

// DefaultPath returns the XDG-compliant config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Default returns a config with every field filled.
func Default() *Config {
	return &Config{
		Backend:     BackendLocal,
		SlotEngine:  SlotEngineCharm,
		QuotaBytes:  DefaultQuotaBytes,
		GeminiModel: DefaultGeminiModel,
		LogLevel:    "info",
		DateLayout:  DefaultDateLayout,
	}
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields defaults. A .env in the working directory is loaded first and
// environment variables override file values:
// - YONGU_BACKEND
// - YONGU_DOCUMENT
// - YONGU_SLOT_ENGINE
// - YONGU_SQLITE_PATH
// - YONGU_QUOTA_BYTES
// - YONGU_LOG_LEVEL
// - YONGU_GEMINI_MODEL
// - GEMINI_API_KEY.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	cfg.path = path

	f, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("YONGU_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("YONGU_DOCUMENT"); v != "" {
		cfg.DocumentPath = v
	}
	if v := os.Getenv("YONGU_SLOT_ENGINE"); v != "" {
		cfg.SlotEngine = v
	}
	if v := os.Getenv("YONGU_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("YONGU_QUOTA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QuotaBytes = n
		}
	}
	if v := os.Getenv("YONGU_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("YONGU_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.SlotEngine == "" {
		c.SlotEngine = d.SlotEngine
	}
	if c.GeminiModel == "" {
		c.GeminiModel = d.GeminiModel
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.DateLayout == "" {
		c.DateLayout = d.DateLayout
	}
}

// Validate rejects unknown backend and slot engine names.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendLocal)
	}
	switch c.SlotEngine {
	case SlotEngineCharm, SlotEngineSQLite:
	default:
		return fmt.Errorf("unknown slot engine %q (want %s or %s)", c.SlotEngine, SlotEngineCharm, SlotEngineSQLite)
	}
	return nil
}

// Path is where Save writes.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// Save writes the config with restricted permissions.
func (c *Config) Save() error {
	path := c.Path()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// HasGemini reports whether AI features can reach the model.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}
