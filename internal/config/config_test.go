package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testEnvVars = []string{
	"PURGARR_CONFIG",
	"TAUTULLI_URL", "TAUTULLI_API_KEY", "TAUTULLI_MOVIE_SECTION_ID",
	"RADARR_URL", "RADARR_API_KEY",
	"OVERSEERR_URL", "OVERSEERR_API_KEY",
	"TRANSMISSION_PROTOCOL", "TRANSMISSION_HOST", "TRANSMISSION_PORT",
	"TRANSMISSION_USERNAME", "TRANSMISSION_PASSWORD", "TRANSMISSION_PATH",
	"REQUEST_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "REPORT_DIR", "DRY_RUN",
}

func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	clearTestEnv(t)

	// Set only required variables
	t.Setenv("TAUTULLI_API_KEY", "tautulli-key")
	t.Setenv("RADARR_API_KEY", "radarr-key")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Tautulli.APIKey != "tautulli-key" {
		t.Errorf("Expected Tautulli API key 'tautulli-key', got '%s'", config.Tautulli.APIKey)
	}
	if config.Radarr.APIKey != "radarr-key" {
		t.Errorf("Expected Radarr API key 'radarr-key', got '%s'", config.Radarr.APIKey)
	}

	// Test defaults
	if config.Tautulli.URL != "http://127.0.0.1:8181" {
		t.Errorf("Expected Tautulli URL 'http://127.0.0.1:8181', got '%s'", config.Tautulli.URL)
	}
	if config.Radarr.URL != "http://127.0.0.1:7878" {
		t.Errorf("Expected Radarr URL 'http://127.0.0.1:7878', got '%s'", config.Radarr.URL)
	}
	if config.Tautulli.MovieSectionID != 1 {
		t.Errorf("Expected movie section 1, got %d", config.Tautulli.MovieSectionID)
	}
	if config.RequestTimeout != 30*time.Second {
		t.Errorf("Expected RequestTimeout '30s', got '%v'", config.RequestTimeout)
	}
	if config.LogLevel != "INFO" {
		t.Errorf("Expected LogLevel 'INFO', got '%s'", config.LogLevel)
	}
	if config.Transmission.Path != "/transmission/rpc" {
		t.Errorf("Expected Transmission path '/transmission/rpc', got '%s'", config.Transmission.Path)
	}
	if config.DryRun {
		t.Errorf("Expected DryRun 'false', got '%t'", config.DryRun)
	}
	if config.HasOverseerr() {
		t.Error("Expected Overseerr to be disabled without an API key")
	}
	if config.HasTransmission() {
		t.Error("Expected Transmission to be disabled without a host")
	}
}

func TestLoadConfig_WithCustomValues(t *testing.T) {
	clearTestEnv(t)

	t.Setenv("TAUTULLI_URL", "http://tautulli.local:8181")
	t.Setenv("TAUTULLI_API_KEY", "tautulli-key")
	t.Setenv("TAUTULLI_MOVIE_SECTION_ID", "3")
	t.Setenv("RADARR_URL", "https://radarr.local")
	t.Setenv("RADARR_API_KEY", "radarr-key")
	t.Setenv("OVERSEERR_URL", "http://overseerr.local:5055")
	t.Setenv("OVERSEERR_API_KEY", "overseerr-key")
	t.Setenv("TRANSMISSION_HOST", "seedbox.local")
	t.Setenv("TRANSMISSION_PORT", "9092")
	t.Setenv("TRANSMISSION_USERNAME", "admin")
	t.Setenv("TRANSMISSION_PASSWORD", "secret")
	t.Setenv("REQUEST_TIMEOUT", "60s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DRY_RUN", "true")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Tautulli.URL != "http://tautulli.local:8181" {
		t.Errorf("Expected Tautulli URL 'http://tautulli.local:8181', got '%s'", config.Tautulli.URL)
	}
	if config.Tautulli.MovieSectionID != 3 {
		t.Errorf("Expected movie section 3, got %d", config.Tautulli.MovieSectionID)
	}
	if config.Radarr.URL != "https://radarr.local" {
		t.Errorf("Expected Radarr URL 'https://radarr.local', got '%s'", config.Radarr.URL)
	}
	if !config.HasOverseerr() {
		t.Error("Expected Overseerr to be enabled")
	}
	if !config.HasTransmission() {
		t.Error("Expected Transmission to be enabled")
	}
	if config.Transmission.Port != 9092 {
		t.Errorf("Expected Transmission port 9092, got %d", config.Transmission.Port)
	}
	if config.Transmission.Username != "admin" || config.Transmission.Password != "secret" {
		t.Errorf("Unexpected Transmission credentials %q/%q", config.Transmission.Username, config.Transmission.Password)
	}
	if config.RequestTimeout != 60*time.Second {
		t.Errorf("Expected RequestTimeout '60s', got '%v'", config.RequestTimeout)
	}
	if config.LogLevel != "DEBUG" {
		t.Errorf("Expected LogLevel 'DEBUG', got '%s'", config.LogLevel)
	}
	if !config.DryRun {
		t.Errorf("Expected DryRun 'true', got '%t'", config.DryRun)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearTestEnv(t)

	path := filepath.Join(t.TempDir(), "purgarr.yaml")
	content := `tautulli:
  api_key: file-tautulli-key
  movie_section_id: 5
radarr:
  api_key: file-radarr-key
dry_run: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("PURGARR_CONFIG", path)
	t.Setenv("RADARR_API_KEY", "env-radarr-key")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Tautulli.APIKey != "file-tautulli-key" {
		t.Errorf("Expected Tautulli API key from file, got '%s'", config.Tautulli.APIKey)
	}
	if config.Tautulli.MovieSectionID != 5 {
		t.Errorf("Expected movie section 5, got %d", config.Tautulli.MovieSectionID)
	}
	if config.Radarr.APIKey != "env-radarr-key" {
		t.Errorf("Expected environment to override file, got '%s'", config.Radarr.APIKey)
	}
	if !config.DryRun {
		t.Error("Expected DryRun from file")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("PURGARR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TAUTULLI_API_KEY", "tautulli-key")
	t.Setenv("RADARR_API_KEY", "radarr-key")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected an error for an explicit config file that does not exist")
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "missing RADARR_API_KEY",
			envVars: map[string]string{"TAUTULLI_API_KEY": "tautulli-key"},
		},
		{
			name:    "missing TAUTULLI_API_KEY",
			envVars: map[string]string{"RADARR_API_KEY": "radarr-key"},
		},
		{
			name:    "no env vars set",
			envVars: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := LoadConfig()
			if err == nil {
				t.Fatal("LoadConfig() expected an error")
			}
			if !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("Expected ErrMissingAPIKey, got %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Tautulli:       TautulliConfig{URL: "http://t:8181", APIKey: "k", MovieSectionID: 1},
			Radarr:         RadarrConfig{URL: "http://r:7878", APIKey: "k"},
			Transmission:   TransmissionConfig{Protocol: "http", Port: 9091},
			RequestTimeout: 30 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "missing Radarr URL", mutate: func(c *Config) { c.Radarr.URL = "" }, wantErr: true},
		{name: "missing Tautulli URL", mutate: func(c *Config) { c.Tautulli.URL = "" }, wantErr: true},
		{name: "zero section", mutate: func(c *Config) { c.Tautulli.MovieSectionID = 0 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "transmission bad port", mutate: func(c *Config) {
			c.Transmission.Host = "seedbox"
			c.Transmission.Port = 70000
		}, wantErr: true},
		{name: "transmission bad protocol", mutate: func(c *Config) {
			c.Transmission.Host = "seedbox"
			c.Transmission.Protocol = "udp"
		}, wantErr: true},
		{name: "transmission port ignored when disabled", mutate: func(c *Config) { c.Transmission.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
