package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
)

// Config holds the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Viewer    ViewerConfig    `toml:"viewer"`
	Reconnect ReconnectConfig `toml:"reconnect"`
	History   HistoryConfig   `toml:"history"`
	Export    ExportConfig    `toml:"export"`
	Crypto    CryptoConfig    `toml:"crypto"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds the log server connection settings
type ServerConfig struct {
	BaseURL        string   `toml:"base_url"`
	Transport      string   `toml:"transport"` // "sse" or "websocket"
	ConnectTimeout Duration `toml:"connect_timeout"`
}

// ViewerConfig holds buffer and filter settings
type ViewerConfig struct {
	DefaultChannel string   `toml:"default_channel"`
	MaxLogs        int      `toml:"max_logs"`
	FilterDebounce Duration `toml:"filter_debounce"`
}

// ReconnectConfig holds the backoff settings
type ReconnectConfig struct {
	BaseDelay   Duration `toml:"base_delay"`
	MaxDelay    Duration `toml:"max_delay"`
	MaxAttempts int      `toml:"max_attempts"`
}

// HistoryConfig selects where the channel history is persisted
type HistoryConfig struct {
	Backend string `toml:"backend"` // file, sqlite, postgres, memory
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

// ExportConfig holds export settings
type ExportConfig struct {
	Dir         string `toml:"dir"`
	Format      string `toml:"format"`      // json or yaml
	Compression string `toml:"compression"` // none, gzip, zstd
}

// CryptoConfig holds the optional shared key for encrypted channels
type CryptoConfig struct {
	SharedKey string `toml:"shared_key"`
}

// LogConfig holds settings for the application's own log output
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
			WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads .env, then the file named by LIVELOG_CONFIG or the first
// file found at a default location. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	path := os.Getenv("LIVELOG_CONFIG")
	if path == "" {
		path = findDefault()
	}

	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// DefaultPaths lists the locations searched when no path is configured
func DefaultPaths() []string {
	return []string{
		"./configs/livelog.toml",
		"./livelog.toml",
		filepath.Join(ConfigDir(), "livelog.toml"),
	}
}

// ConfigDir returns ~/.config/livelog
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "livelog")
}

func findDefault() string {
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}
	if c.Server.Transport == "" {
		c.Server.Transport = "sse"
	}
	if c.Server.ConnectTimeout.Duration == 0 {
		c.Server.ConnectTimeout.Duration = 10 * time.Second
	}

	// Viewer
	if c.Viewer.DefaultChannel == "" {
		c.Viewer.DefaultChannel = "logs"
	}
	if c.Viewer.MaxLogs == 0 {
		c.Viewer.MaxLogs = 10000
	}
	if c.Viewer.FilterDebounce.Duration == 0 {
		c.Viewer.FilterDebounce.Duration = 300 * time.Millisecond
	}

	// Reconnect
	if c.Reconnect.BaseDelay.Duration == 0 {
		c.Reconnect.BaseDelay.Duration = time.Second
	}
	if c.Reconnect.MaxDelay.Duration == 0 {
		c.Reconnect.MaxDelay.Duration = 30 * time.Second
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect.MaxAttempts = 10
	}

	// History
	if c.History.Backend == "" {
		c.History.Backend = "file"
	}
	if c.History.Path == "" {
		switch c.History.Backend {
		case "sqlite":
			c.History.Path = filepath.Join(ConfigDir(), "history.db")
		default:
			c.History.Path = ConfigDir()
		}
	}

	// Export
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Export.Format == "" {
		c.Export.Format = "json"
	}
	if c.Export.Compression == "" {
		c.Export.Compression = "none"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(ConfigDir(), "livelog.log")
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Server.BaseURL = os.ExpandEnv(c.Server.BaseURL)
	c.History.Path = os.ExpandEnv(c.History.Path)
	c.History.DSN = os.ExpandEnv(c.History.DSN)
	c.Export.Dir = os.ExpandEnv(c.Export.Dir)
	c.Crypto.SharedKey = os.ExpandEnv(c.Crypto.SharedKey)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

// applyEnvOverrides applies LIVELOG_* variables on top of file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LIVELOG_SERVER"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("LIVELOG_CHANNEL"); v != "" {
		c.Viewer.DefaultChannel = v
	}
	if v := os.Getenv("LIVELOG_SHARED_KEY"); v != "" {
		c.Crypto.SharedKey = v
	}
	if v := os.Getenv("LIVELOG_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LIVELOG_MAX_LOGS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Viewer.MaxLogs = n
		}
	}
}

// Validate checks limits and enumerated values
func (c *Config) Validate() error {
	var problems []string

	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("server.base_url must be http(s): %q", c.Server.BaseURL))
	}
	if !oneOf(c.Server.Transport, "sse", "websocket") {
		problems = append(problems, fmt.Sprintf("server.transport unknown: %q", c.Server.Transport))
	}
	if c.Viewer.MaxLogs <= 0 {
		problems = append(problems, "viewer.max_logs must be positive")
	}
	if c.Viewer.FilterDebounce.Duration < 0 {
		problems = append(problems, "viewer.filter_debounce must not be negative")
	}
	if c.Reconnect.BaseDelay.Duration <= 0 || c.Reconnect.MaxDelay.Duration <= 0 {
		problems = append(problems, "reconnect delays must be positive")
	}
	if c.Reconnect.MaxDelay.Duration < c.Reconnect.BaseDelay.Duration {
		problems = append(problems, "reconnect.max_delay must not be below base_delay")
	}
	if c.Reconnect.MaxAttempts <= 0 {
		problems = append(problems, "reconnect.max_attempts must be positive")
	}
	if !oneOf(c.History.Backend, "file", "sqlite", "postgres", "memory") {
		problems = append(problems, fmt.Sprintf("history.backend unknown: %q", c.History.Backend))
	}
	if c.History.Backend == "postgres" && c.History.DSN == "" {
		problems = append(problems, "history.dsn is required for postgres")
	}
	if !oneOf(c.Export.Format, "json", "yaml") {
		problems = append(problems, fmt.Sprintf("export.format unknown: %q", c.Export.Format))
	}
	if !oneOf(c.Export.Compression, "none", "gzip", "zstd") {
		problems = append(problems, fmt.Sprintf("export.compression unknown: %q", c.Export.Compression))
	}

	if len(problems) > 0 {
		return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	return nil
}

// SubscribeURL returns the SSE endpoint for a channel
func (c *Config) SubscribeURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + "/api/subscribe"
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
