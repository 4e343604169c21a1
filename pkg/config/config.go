package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the public extraction backend the web app talked to
	DefaultEndpoint = "https://reel-grab-be.vercel.app/reel"

	// DefaultFilename is the name every saved reel gets
	DefaultFilename = "instagram-reel.mp4"

	envPrefix = "REELGRAB_"
)

// Config holds all configuration options for reelgrab
type Config struct {
	Extraction    ExtractionConfig   `yaml:"extraction" json:"extraction"`
	Download      DownloadConfig     `yaml:"download" json:"download"`
	Server        ServerConfig       `yaml:"server" json:"server"`
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`
	Logging       LoggingConfig      `yaml:"logging" json:"logging"`
}

// ExtractionConfig describes the remote extraction service
type ExtractionConfig struct {
	Endpoint          string        `yaml:"endpoint" json:"endpoint"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	APIToken          string        `yaml:"api_token" json:"api_token"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// DownloadConfig holds asset fetch and file save settings
type DownloadConfig struct {
	Filename          string        `yaml:"filename" json:"filename"`
	OutputDir         string        `yaml:"output_dir" json:"output_dir"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	MaxFileSize       int64         `yaml:"max_file_size" json:"max_file_size"`
	OverwriteExisting bool          `yaml:"overwrite_existing" json:"overwrite_existing"`
}

// ServerConfig holds the web form server settings
type ServerConfig struct {
	Addr              string        `yaml:"addr" json:"addr"`
	MaxConcurrent     int           `yaml:"max_concurrent" json:"max_concurrent"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	SessionTTL        time.Duration `yaml:"session_ttl" json:"session_ttl"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Desktop bool `yaml:"desktop" json:"desktop"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// FileOnly drops console output, leaving File as the only sink
	FileOnly bool `yaml:"file_only" json:"file_only"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Endpoint:          DefaultEndpoint,
			Timeout:           30 * time.Second,
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			RequestsPerMinute: 30,
		},
		Download: DownloadConfig{
			Filename:    DefaultFilename,
			OutputDir:   "./downloads",
			Timeout:     2 * time.Minute,
			MaxFileSize: 0, // no limit
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxConcurrent:     4,
			RequestsPerMinute: 20,
			SessionTTL:        30 * time.Minute,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Desktop: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv overrides values from REELGRAB_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "ENDPOINT"); v != "" {
		c.Extraction.Endpoint = v
	}
	if v := os.Getenv(envPrefix + "API_TOKEN"); v != "" {
		c.Extraction.APIToken = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Extraction.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", envPrefix, err))
		} else {
			c.Extraction.RequestsPerMinute = n
		}
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Download.OutputDir = v
	}
	if v := os.Getenv(envPrefix + "FILENAME"); v != "" {
		c.Download.Filename = v
	}
	if v := os.Getenv(envPrefix + "ADDR"); v != "" {
		c.Server.Addr = v
	}
	// PORT is what most hosting platforms hand a web process
	if v := os.Getenv("PORT"); v != "" && os.Getenv(envPrefix+"ADDR") == "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv(envPrefix + "NOTIFICATIONS_ENABLED"); v != "" {
		c.Notifications.Enabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the default locations and finding nothing is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// DefaultLocations lists the config file search path in order of precedence
func DefaultLocations() []string {
	home, _ := os.UserHomeDir()
	return []string{
		".reelgrab.yaml",
		".reelgrab.yml",
		filepath.Join(home, ".config", "reelgrab", "config.yaml"),
		filepath.Join(home, ".reelgrab.yaml"),
	}
}

func findConfigFile() string {
	for _, loc := range DefaultLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Extraction.Endpoint); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, errors.New("extraction endpoint must be an absolute http(s) URL"))
	}
	if c.Extraction.Timeout <= 0 {
		errs = append(errs, errors.New("extraction timeout must be positive"))
	}
	if c.Extraction.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("extraction requests per minute cannot be negative"))
	}

	if c.Download.Filename == "" || c.Download.Filename != filepath.Base(c.Download.Filename) {
		errs = append(errs, errors.New("download filename must be a bare file name"))
	}
	if c.Download.OutputDir == "" {
		errs = append(errs, errors.New("download output directory is required"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MaxFileSize < 0 {
		errs = append(errs, errors.New("max file size cannot be negative"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.Server.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("server max concurrent must be positive"))
	}
	if c.Server.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("server requests per minute cannot be negative"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server session ttl must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges explicitly set command line flags
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["endpoint"].(string); ok && v != "" {
		c.Extraction.Endpoint = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Download.OutputDir = v
	}
	if v, ok := flags["filename"].(string); ok && v != "" {
		c.Download.Filename = v
	}
	if v, ok := flags["overwrite"].(bool); ok {
		c.Download.OverwriteExisting = v
	}
	if v, ok := flags["addr"].(string); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := flags["max-concurrent"].(int); ok && v > 0 {
		c.Server.MaxConcurrent = v
	}
	if v, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = v
	}
	if v, ok := flags["desktop-notifications"].(bool); ok {
		c.Notifications.Desktop = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file-only"].(bool); ok {
		c.Logging.FileOnly = v
	}
}

// Load loads configuration from all sources with proper precedence:
// flags > environment > .env files > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// godotenv never overrides variables that are already set
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".reelgrab.env"))
	}

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
