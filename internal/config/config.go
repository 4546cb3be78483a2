package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Tautulli     TautulliConfig     `mapstructure:"tautulli"`
	Radarr       RadarrConfig       `mapstructure:"radarr"`
	Overseerr    OverseerrConfig    `mapstructure:"overseerr"`
	Transmission TransmissionConfig `mapstructure:"transmission"`

	// Global settings
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	LogFile        string        `mapstructure:"log_file"`
	ReportDir      string        `mapstructure:"report_dir"`
	DryRun         bool          `mapstructure:"dry_run"`
}

// TautulliConfig holds Tautulli-specific configuration
type TautulliConfig struct {
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	MovieSectionID int    `mapstructure:"movie_section_id"`
}

// RadarrConfig holds Radarr-specific configuration
type RadarrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// OverseerrConfig holds Overseerr-specific configuration (optional)
type OverseerrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// TransmissionConfig holds Transmission RPC configuration (optional)
type TransmissionConfig struct {
	Protocol string `mapstructure:"protocol"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"`
}

// ErrMissingAPIKey is returned when a required API key is not configured
var ErrMissingAPIKey = errors.New("required Tautulli/Radarr API key not set")

// LoadConfig loads configuration from an optional .env file, an optional
// purgarr.yaml and environment variables. Environment variables win.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (ignore errors - .env file is optional)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("PURGARR_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("purgarr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/purgarr")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can populate it on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("tautulli.url", "http://127.0.0.1:8181")
	v.SetDefault("tautulli.api_key", "")
	v.SetDefault("tautulli.movie_section_id", 1)

	v.SetDefault("radarr.url", "http://127.0.0.1:7878")
	v.SetDefault("radarr.api_key", "")

	v.SetDefault("overseerr.url", "http://127.0.0.1:5055")
	v.SetDefault("overseerr.api_key", "")

	v.SetDefault("transmission.protocol", "http")
	v.SetDefault("transmission.host", "")
	v.SetDefault("transmission.port", 9091)
	v.SetDefault("transmission.username", "")
	v.SetDefault("transmission.password", "")
	v.SetDefault("transmission.path", "/transmission/rpc")

	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")
	v.SetDefault("report_dir", "")
	v.SetDefault("dry_run", false)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tautulli.APIKey == "" || c.Radarr.APIKey == "" {
		return ErrMissingAPIKey
	}

	if c.Tautulli.URL == "" {
		return fmt.Errorf("TAUTULLI_URL is required")
	}

	if c.Radarr.URL == "" {
		return fmt.Errorf("RADARR_URL is required")
	}

	if c.Tautulli.MovieSectionID <= 0 {
		return fmt.Errorf("TAUTULLI_MOVIE_SECTION_ID must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.HasTransmission() {
		if c.Transmission.Port <= 0 || c.Transmission.Port > 65535 {
			return fmt.Errorf("TRANSMISSION_PORT must be between 1 and 65535")
		}
		switch strings.ToLower(c.Transmission.Protocol) {
		case "http", "https":
		default:
			return fmt.Errorf("TRANSMISSION_PROTOCOL must be http or https")
		}
	}

	return nil
}

// HasOverseerr reports whether the optional Overseerr integration is configured
func (c *Config) HasOverseerr() bool {
	return c.Overseerr.APIKey != "" && c.Overseerr.URL != ""
}

// HasTransmission reports whether the optional Transmission integration is configured
func (c *Config) HasTransmission() bool {
	return c.Transmission.Host != ""
}
