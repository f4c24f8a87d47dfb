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
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the hashtag exporter
type Config struct {
	// Upstream endpoint settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Pagination pacing
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Where the records go
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds Instagram-specific configuration
type InstagramConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
}

// FetchConfig holds the fixed wait applied between page requests
type FetchConfig struct {
	WaitSeconds int `yaml:"wait_seconds" json:"wait_seconds"`
}

// Wait returns the configured wait as a duration
func (f FetchConfig) Wait() time.Duration {
	return time.Duration(f.WaitSeconds) * time.Second
}

// ExportConfig holds output configuration
type ExportConfig struct {
	Output      string `yaml:"output" json:"output"`
	Delimiter   string `yaml:"delimiter" json:"delimiter"`
	DatabaseDSN string `yaml:"database_dsn" json:"database_dsn"`
}

// DelimiterRune returns the first rune of the configured delimiter, '|' when unset
func (e ExportConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(e.Delimiter)
	if r == utf8.RuneError {
		return '|'
	}
	return r
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

// DefaultConfig returns a Config instance with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			BaseURL:   "https://www.instagram.com",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			Timeout:   30 * time.Second,
		},
		Fetch: FetchConfig{
			WaitSeconds: 20,
		},
		Export: ExportConfig{
			Output:    "data.csv",
			Delimiter: "|",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("IGTAGS_BASE_URL"); baseURL != "" {
		c.Instagram.BaseURL = baseURL
	}
	if userAgent := os.Getenv("IGTAGS_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if wait := os.Getenv("IGTAGS_WAIT"); wait != "" {
		val, err := strconv.Atoi(wait)
		if err != nil {
			return fmt.Errorf("invalid IGTAGS_WAIT %q: %w", wait, err)
		}
		c.Fetch.WaitSeconds = val
	}

	if output := os.Getenv("IGTAGS_OUTPUT"); output != "" {
		c.Export.Output = output
	}
	if dsn := os.Getenv("IGTAGS_DATABASE_DSN"); dsn != "" {
		c.Export.DatabaseDSN = dsn
	}

	if logLevel := os.Getenv("IGTAGS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
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

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igtags.yaml",
		".igtags.yml",
		filepath.Join(home, ".config", "igtags", "config.yaml"),
		filepath.Join(home, ".igtags.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Instagram.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an absolute http(s) URL", c.Instagram.BaseURL))
	}
	if c.Instagram.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Fetch.WaitSeconds < 0 {
		errs = append(errs, errors.New("wait cannot be negative"))
	}

	if c.Export.Output == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if utf8.RuneCountInString(c.Export.Delimiter) != 1 {
		errs = append(errs, errors.New("delimiter must be a single character"))
	} else if strings.ContainsAny(c.Export.Delimiter, "\"\r\n") {
		errs = append(errs, errors.New("delimiter cannot be a quote or newline"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if output, ok := flags["output"].(string); ok {
		c.Export.Output = output
	}
	if wait, ok := flags["wait"].(int); ok {
		c.Fetch.WaitSeconds = wait
	}
	if dsn, ok := flags["database-dsn"].(string); ok && dsn != "" {
		c.Export.DatabaseDSN = dsn
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if noColor, ok := flags["no-color"].(bool); ok {
		c.Logging.NoColor = noColor
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igtags.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
