package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Video     VideoConfig     `yaml:"video"`
	Instagram InstagramConfig `yaml:"instagram"`
	Logging   LoggingConfig   `yaml:"logging"`
	App       AppConfig       `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// VideoConfig holds the rendering pipeline directories and assets
type VideoConfig struct {
	OutputDir        string `yaml:"output_dir"`
	AssetsDir        string `yaml:"assets_dir"`
	LogsDir          string `yaml:"logs_dir"`
	TemplatePath     string `yaml:"template_path"`
	FallbackAudioURL string `yaml:"fallback_audio_url"`
	CaptureCommand   string `yaml:"capture_command"`
}

// InstagramConfig holds publisher endpoints and the settle delay. The
// per-region credentials are deliberately not part of the YAML file; they
// are read from the environment (see LoadCredentialsFromEnv).
type InstagramConfig struct {
	GraphAPIBaseURL string        `yaml:"graph_api_base_url"`
	VideoAPIBaseURL string        `yaml:"video_api_base_url"`
	SettleDelay     time.Duration `yaml:"settle_delay"`

	AccessTokenBR     string `yaml:"-"`
	AccountIDBR       string `yaml:"-"`
	AccessTokenGlobal string `yaml:"-"`
	AccountIDGlobal   string `yaml:"-"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Instagram.LoadCredentialsFromEnv()

	return &config, nil
}

// LoadCredentialsFromEnv overlays the per-region Instagram credential pairs
// from the environment
func (c *InstagramConfig) LoadCredentialsFromEnv() {
	c.AccessTokenBR = os.Getenv("INSTAGRAM_ACCESS_TOKEN_BR")
	c.AccountIDBR = os.Getenv("INSTAGRAM_ACCOUNT_ID_BR")
	c.AccessTokenGlobal = os.Getenv("INSTAGRAM_ACCESS_TOKEN_GLOBAL")
	c.AccountIDGlobal = os.Getenv("INSTAGRAM_ACCOUNT_ID_GLOBAL")
}

// HasAnyCredentials reports whether at least one region's pair is complete.
// Missing credentials are a startup warning, not a startup failure.
func (c *InstagramConfig) HasAnyCredentials() bool {
	brOK := c.AccessTokenBR != "" && c.AccountIDBR != ""
	globalOK := c.AccessTokenGlobal != "" && c.AccountIDGlobal != ""
	return brOK || globalOK
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Video.OutputDir == "" {
		return fmt.Errorf("video output_dir is required")
	}

	if c.Video.AssetsDir == "" {
		return fmt.Errorf("video assets_dir is required")
	}

	if c.Video.LogsDir == "" {
		return fmt.Errorf("video logs_dir is required")
	}

	if c.Video.TemplatePath == "" {
		return fmt.Errorf("video template_path is required")
	}

	if c.Video.CaptureCommand == "" {
		return fmt.Errorf("video capture_command is required")
	}

	if c.Instagram.SettleDelay < 0 {
		return fmt.Errorf("instagram settle_delay must not be negative")
	}

	return nil
}
