package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultAPIURL              = "http://localhost:8000/api"
	DefaultPageSize            = 10
	DefaultSuggestDebounce     = 300 * time.Millisecond
	DefaultPlaceholderInterval = 4 * time.Second
	DefaultHighlightDuration   = 2 * time.Second
)

// DefaultPlaceholders rotate in the empty search box.
var DefaultPlaceholders = []string{
	"Phase 3 lung cancer trials",
	"Recruiting breast cancer studies in Boston",
	"Pediatric asthma trials",
	"Diabetes trials sponsored by Novo Nordisk",
}

// DefaultSuggestedQueries are offered when a search returns nothing.
var DefaultSuggestedQueries = []string{
	"Phase 3 breast cancer trials",
	"Recruiting diabetes studies",
	"Alzheimer's disease Phase 2",
	"Melanoma immunotherapy",
}

type Config struct {
	APIURL              string   `toml:"api_url"`
	PageSize            int      `toml:"page_size"`
	RequestTimeout      Duration `toml:"request_timeout"`
	SuggestDebounce     Duration `toml:"suggest_debounce"`
	PlaceholderInterval Duration `toml:"placeholder_interval"`
	HighlightDuration   Duration `toml:"highlight_duration"`
	Placeholders        []string `toml:"placeholders"`
	SuggestedQueries    []string `toml:"suggested_queries"`
	LogFile             string   `toml:"log_file"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a TOML document and fills every unset field with its default.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &config, nil
}

// Validate rejects values that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.PageSize < 0 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.PageSize)
	}
	if c.RequestTimeout.Duration < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.APIURL != "" && !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.SuggestDebounce.Duration == 0 {
		c.SuggestDebounce = Duration{DefaultSuggestDebounce}
	}
	if c.PlaceholderInterval.Duration == 0 {
		c.PlaceholderInterval = Duration{DefaultPlaceholderInterval}
	}
	if c.HighlightDuration.Duration == 0 {
		c.HighlightDuration = Duration{DefaultHighlightDuration}
	}
	if len(c.Placeholders) == 0 {
		c.Placeholders = append([]string(nil), DefaultPlaceholders...)
	}
	if len(c.SuggestedQueries) == 0 {
		c.SuggestedQueries = append([]string(nil), DefaultSuggestedQueries...)
	}
	if c.LogFile == "" {
		if dir, err := GetStateDir(); err == nil {
			c.LogFile = filepath.Join(dir, "trialsearch.log")
		}
	}
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, pointing it
// at the configured API URL.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template := strings.Replace(configTemplate, DefaultAPIURL, c.APIURL, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetStateDir returns the directory for logs and other runtime state
func GetStateDir() (string, error) {
	// Use XDG_STATE_HOME if set, otherwise use ~/.local/state
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "trialsearch"), nil
}

// GetConfigDir returns the configuration directory for trialsearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "trialsearch"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
