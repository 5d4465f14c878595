package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
)

// clearEnv isolates a test from LIVELOG_* variables and the user's home
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LIVELOG_CONFIG", "LIVELOG_SERVER", "LIVELOG_CHANNEL",
		"LIVELOG_SHARED_KEY", "LIVELOG_LOG_LEVEL", "LIVELOG_MAX_LOGS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"milliseconds", "300ms", 300 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Transport != "sse" {
		t.Errorf("Server.Transport = %v, want sse", cfg.Server.Transport)
	}
	if cfg.Viewer.DefaultChannel != "logs" {
		t.Errorf("Viewer.DefaultChannel = %v, want logs", cfg.Viewer.DefaultChannel)
	}
	if cfg.Viewer.MaxLogs != 10000 {
		t.Errorf("Viewer.MaxLogs = %v, want 10000", cfg.Viewer.MaxLogs)
	}
	if cfg.Viewer.FilterDebounce.Duration != 300*time.Millisecond {
		t.Errorf("Viewer.FilterDebounce = %v, want 300ms", cfg.Viewer.FilterDebounce.Duration)
	}
	if cfg.Reconnect.BaseDelay.Duration != time.Second {
		t.Errorf("Reconnect.BaseDelay = %v, want 1s", cfg.Reconnect.BaseDelay.Duration)
	}
	if cfg.Reconnect.MaxDelay.Duration != 30*time.Second {
		t.Errorf("Reconnect.MaxDelay = %v, want 30s", cfg.Reconnect.MaxDelay.Duration)
	}
	if cfg.Reconnect.MaxAttempts != 10 {
		t.Errorf("Reconnect.MaxAttempts = %v, want 10", cfg.Reconnect.MaxAttempts)
	}
	if cfg.History.Backend != "file" {
		t.Errorf("History.Backend = %v, want file", cfg.History.Backend)
	}
	if cfg.Export.Format != "json" || cfg.Export.Compression != "none" {
		t.Errorf("Export = %+v, want json/none", cfg.Export)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_applyDefaults_SQLitePath(t *testing.T) {
	cfg := &Config{History: HistoryConfig{Backend: "sqlite"}}
	cfg.applyDefaults()

	if !strings.HasSuffix(cfg.History.Path, "history.db") {
		t.Errorf("History.Path = %v, want .../history.db", cfg.History.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.Server.BaseURL = "localhost:8080" }, true},
		{"bad transport", func(c *Config) { c.Server.Transport = "grpc" }, true},
		{"websocket", func(c *Config) { c.Server.Transport = "websocket" }, false},
		{"zero max logs", func(c *Config) { c.Viewer.MaxLogs = -1 }, true},
		{"max below base", func(c *Config) { c.Reconnect.MaxDelay.Duration = time.Millisecond }, true},
		{"bad backend", func(c *Config) { c.History.Backend = "redis" }, true},
		{"postgres without dsn", func(c *Config) { c.History.Backend = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.History.Backend = "postgres"
			c.History.DSN = "postgres://localhost/livelog"
		}, false},
		{"bad format", func(c *Config) { c.Export.Format = "csv" }, true},
		{"zstd", func(c *Config) { c.Export.Compression = "zstd" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeInvalidConfig)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/livelog.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
		t.Errorf("Load() code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeConfigError)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "livelog.toml")

	configContent := `
[server]
base_url = "https://logs.example.com"
transport = "websocket"

[viewer]
default_channel = "audit"
filter_debounce = "150ms"

[reconnect]
max_attempts = 3

[export]
format = "yaml"
compression = "gzip"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.BaseURL != "https://logs.example.com" {
		t.Errorf("Server.BaseURL = %v", cfg.Server.BaseURL)
	}
	if cfg.Server.Transport != "websocket" {
		t.Errorf("Server.Transport = %v, want websocket", cfg.Server.Transport)
	}
	if cfg.Viewer.DefaultChannel != "audit" {
		t.Errorf("Viewer.DefaultChannel = %v, want audit", cfg.Viewer.DefaultChannel)
	}
	if cfg.Viewer.FilterDebounce.Duration != 150*time.Millisecond {
		t.Errorf("Viewer.FilterDebounce = %v, want 150ms", cfg.Viewer.FilterDebounce.Duration)
	}
	if cfg.Reconnect.MaxAttempts != 3 {
		t.Errorf("Reconnect.MaxAttempts = %v, want 3", cfg.Reconnect.MaxAttempts)
	}
	if cfg.Export.Format != "yaml" || cfg.Export.Compression != "gzip" {
		t.Errorf("Export = %+v", cfg.Export)
	}

	// Check defaults were applied for missing values
	if cfg.Viewer.MaxLogs != 10000 {
		t.Errorf("Viewer.MaxLogs = %v, want 10000 (default)", cfg.Viewer.MaxLogs)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "livelog.toml")
	if err := os.WriteFile(configPath, []byte("[server\nbase_url ="), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Load() error = %v, want code %v", err, mdwerror.CodeInvalidConfig)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("TEST_SHARED_KEY", "00112233")

	cfg := &Config{Crypto: CryptoConfig{SharedKey: "$TEST_SHARED_KEY"}}
	cfg.expandEnvVars()

	if cfg.Crypto.SharedKey != "00112233" {
		t.Errorf("SharedKey = %v, want 00112233", cfg.Crypto.SharedKey)
	}
}

func TestConfig_applyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIVELOG_SERVER", "http://10.0.0.5:9000")
	t.Setenv("LIVELOG_CHANNEL", "errors")
	t.Setenv("LIVELOG_MAX_LOGS", "500")

	cfg := Default()
	cfg.applyEnvOverrides()

	if cfg.Server.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("Server.BaseURL = %v", cfg.Server.BaseURL)
	}
	if cfg.Viewer.DefaultChannel != "errors" {
		t.Errorf("Viewer.DefaultChannel = %v, want errors", cfg.Viewer.DefaultChannel)
	}
	if cfg.Viewer.MaxLogs != 500 {
		t.Errorf("Viewer.MaxLogs = %v, want 500", cfg.Viewer.MaxLogs)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	clearEnv(t)

	// Change to a temp directory without config files
	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Viewer.DefaultChannel != "logs" {
		t.Errorf("Viewer.DefaultChannel = %v, want logs", cfg.Viewer.DefaultChannel)
	}
}

func TestLoadFromEnv_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("LIVELOG_CHANNEL")

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("LIVELOG_CHANNEL=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	defer os.Unsetenv("LIVELOG_CHANNEL")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Viewer.DefaultChannel != "from-dotenv" {
		t.Errorf("Viewer.DefaultChannel = %v, want from-dotenv", cfg.Viewer.DefaultChannel)
	}
}

func TestConfig_SubscribeURL(t *testing.T) {
	cfg := Default()
	cfg.Server.BaseURL = "http://localhost:8080/"

	if got := cfg.SubscribeURL(); got != "http://localhost:8080/api/subscribe" {
		t.Errorf("SubscribeURL() = %v", got)
	}
}
