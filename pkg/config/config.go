package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// MaxPageSize is the largest page the tagged-search endpoint returns
	MaxPageSize = 20

	MinSearchInterval  = time.Second
	MinProfileInterval = 500 * time.Millisecond
)

// Config holds all configuration options for a search run
type Config struct {
	Tumblr    TumblrConfig    `yaml:"tumblr" json:"tumblr"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Filter    FilterConfig    `yaml:"filter" json:"filter"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	UI        UIConfig        `yaml:"ui" json:"ui"`
}

// TumblrConfig holds API credentials and client settings
type TumblrConfig struct {
	ConsumerKey    string        `yaml:"consumer_key" json:"consumer_key"`
	ConsumerSecret string        `yaml:"consumer_secret" json:"consumer_secret"`
	OAuthToken     string        `yaml:"oauth_token" json:"oauth_token"`
	OAuthSecret    string        `yaml:"oauth_secret" json:"oauth_secret"`
	Account        string        `yaml:"account" json:"account"`
	APIBaseURL     string        `yaml:"api_base_url" json:"api_base_url"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`
}

// SearchConfig controls which themes are walked and how deep
type SearchConfig struct {
	Themes           []string `yaml:"themes" json:"themes"`
	MaxPostsPerTheme int      `yaml:"max_posts_per_theme" json:"max_posts_per_theme"`
	PageSize         int      `yaml:"page_size" json:"page_size"`
}

// FilterConfig holds the qualification thresholds
type FilterConfig struct {
	MinFollowers    int      `yaml:"min_followers" json:"min_followers"`
	MaxDaysInactive int      `yaml:"max_days_inactive" json:"max_days_inactive"`
	WordBoundary    bool     `yaml:"word_boundary" json:"word_boundary"`
	UsePostMentions bool     `yaml:"use_post_mentions" json:"use_post_mentions"`
	ExtraLocations  []string `yaml:"extra_locations" json:"extra_locations"`
}

// RateLimitConfig holds per-kind call spacing and the call budget
type RateLimitConfig struct {
	SearchInterval  time.Duration `yaml:"search_interval" json:"search_interval"`
	ProfileInterval time.Duration `yaml:"profile_interval" json:"profile_interval"`
	HourlyBudget    int           `yaml:"hourly_budget" json:"hourly_budget"`
	DailyBudget     int           `yaml:"daily_budget" json:"daily_budget"`
}

// OutputConfig holds where results are written
type OutputConfig struct {
	BaseName  string `yaml:"base_name" json:"base_name"`
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// UIConfig holds terminal presentation preferences
type UIConfig struct {
	TUI           bool `yaml:"tui" json:"tui"`
	Quiet         bool `yaml:"quiet" json:"quiet"`
	Notifications bool `yaml:"notifications" json:"notifications"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tumblr: TumblrConfig{
			APIBaseURL: "https://api.tumblr.com",
			Timeout:    30 * time.Second,
		},
		Search: SearchConfig{
			MaxPostsPerTheme: 500,
			PageSize:         MaxPageSize,
		},
		Filter: FilterConfig{
			MinFollowers:    10,
			MaxDaysInactive: 90,
		},
		RateLimit: RateLimitConfig{
			SearchInterval:  MinSearchInterval,
			ProfileInterval: MinProfileInterval,
			// stays under Tumblr's 1000/hour and 5000/day allowance
			HourlyBudget: 990,
			DailyBudget:  4990,
		},
		Output: OutputConfig{
			BaseName:  "results",
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromEnv overrides options from BLOGFINDER_* variables and credentials
// from TUMBLR_* variables.
func (c *Config) LoadFromEnv() error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = n
	}
	setBool := func(name string, dst *bool) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*dst = b
	}

	setString("TUMBLR_CONSUMER_KEY", &c.Tumblr.ConsumerKey)
	setString("TUMBLR_CONSUMER_SECRET", &c.Tumblr.ConsumerSecret)
	setString("TUMBLR_OAUTH_TOKEN", &c.Tumblr.OAuthToken)
	setString("TUMBLR_OAUTH_SECRET", &c.Tumblr.OAuthSecret)
	setString("BLOGFINDER_ACCOUNT", &c.Tumblr.Account)

	if themes := os.Getenv("BLOGFINDER_THEMES"); themes != "" {
		c.Search.Themes = SplitList(themes)
	}
	setInt("BLOGFINDER_MAX_POSTS_PER_THEME", &c.Search.MaxPostsPerTheme)
	setInt("BLOGFINDER_PAGE_SIZE", &c.Search.PageSize)
	setInt("BLOGFINDER_MIN_FOLLOWERS", &c.Filter.MinFollowers)
	setInt("BLOGFINDER_MAX_DAYS_INACTIVE", &c.Filter.MaxDaysInactive)
	setBool("BLOGFINDER_WORD_BOUNDARY", &c.Filter.WordBoundary)
	setBool("BLOGFINDER_POST_MENTIONS", &c.Filter.UsePostMentions)
	setInt("BLOGFINDER_HOURLY_BUDGET", &c.RateLimit.HourlyBudget)
	setInt("BLOGFINDER_DAILY_BUDGET", &c.RateLimit.DailyBudget)
	setString("BLOGFINDER_OUTPUT", &c.Output.BaseName)
	setString("BLOGFINDER_OUTPUT_DIR", &c.Output.Directory)
	setString("BLOGFINDER_LOG_LEVEL", &c.Logging.Level)
	setString("BLOGFINDER_LOG_FILE", &c.Logging.File)

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
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

// DefaultConfigPath is where `config init` writes
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "blogfinder", "config.yaml")
}

func findConfigFile() string {
	locations := []string{
		".blogfinder.yaml",
		".blogfinder.yml",
		DefaultConfigPath(),
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// Validate checks option ranges. It does not require credentials or themes,
// so `config show` works on a fresh install.
func (c *Config) Validate() error {
	var errs []error

	if c.Search.MaxPostsPerTheme <= 0 {
		errs = append(errs, errors.New("max posts per theme must be positive"))
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d", MaxPageSize))
	}
	if c.Filter.MinFollowers < 0 {
		errs = append(errs, errors.New("min followers cannot be negative"))
	}
	if c.Filter.MaxDaysInactive <= 0 {
		errs = append(errs, errors.New("max days inactive must be positive"))
	}
	if c.RateLimit.SearchInterval < MinSearchInterval {
		errs = append(errs, fmt.Errorf("search interval cannot be below %s", MinSearchInterval))
	}
	if c.RateLimit.ProfileInterval < MinProfileInterval {
		errs = append(errs, fmt.Errorf("profile interval cannot be below %s", MinProfileInterval))
	}
	if c.RateLimit.HourlyBudget < 0 || c.RateLimit.DailyBudget < 0 {
		errs = append(errs, errors.New("call budgets cannot be negative"))
	}
	if strings.TrimSpace(c.Output.BaseName) == "" {
		errs = append(errs, errors.New("output base name is required"))
	}
	if c.Tumblr.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// ValidateForRun checks what a search needs on top of Validate
func (c *Config) ValidateForRun() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Search.Themes) == 0 {
		errs = append(errs, errors.New("at least one theme is required"))
	}
	if !c.HasCredentials() {
		errs = append(errs, errors.New("Tumblr consumer key, consumer secret, OAuth token and OAuth secret are all required"))
	}
	return errors.Join(errs...)
}

// HasCredentials reports whether all four OAuth values are set
func (c *Config) HasCredentials() bool {
	t := c.Tumblr
	return t.ConsumerKey != "" && t.ConsumerSecret != "" && t.OAuthToken != "" && t.OAuthSecret != ""
}

// OutputBase returns the export path without extension
func (c *Config) OutputBase() string {
	if c.Output.Directory == "" || filepath.IsAbs(c.Output.BaseName) {
		return c.Output.BaseName
	}
	return filepath.Join(c.Output.Directory, c.Output.BaseName)
}

// Redacted returns a copy safe to print
func (c *Config) Redacted() *Config {
	cp := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	cp.Tumblr.ConsumerKey = mask(c.Tumblr.ConsumerKey)
	cp.Tumblr.ConsumerSecret = mask(c.Tumblr.ConsumerSecret)
	cp.Tumblr.OAuthToken = mask(c.Tumblr.OAuthToken)
	cp.Tumblr.OAuthSecret = mask(c.Tumblr.OAuthSecret)
	return &cp
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

// MergeCommandLineFlags applies flag values the user actually set
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if themes, ok := flags["themes"].([]string); ok && len(themes) > 0 {
		c.Search.Themes = normalizeList(themes)
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Output.BaseName = output
	}
	if v, ok := flags["max-posts-per-theme"].(int); ok {
		c.Search.MaxPostsPerTheme = v
	}
	if v, ok := flags["page-size"].(int); ok {
		c.Search.PageSize = v
	}
	if v, ok := flags["min-followers"].(int); ok {
		c.Filter.MinFollowers = v
	}
	if v, ok := flags["max-days-inactive"].(int); ok {
		c.Filter.MaxDaysInactive = v
	}
	if v, ok := flags["word-boundary"].(bool); ok {
		c.Filter.WordBoundary = v
	}
	if v, ok := flags["post-mentions"].(bool); ok {
		c.Filter.UsePostMentions = v
	}
	if v, ok := flags["tui"].(bool); ok {
		c.UI.TUI = v
	}
	if v, ok := flags["quiet"].(bool); ok {
		c.UI.Quiet = v
	}
	if account, ok := flags["account"].(string); ok && account != "" {
		c.Tumblr.Account = account
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.Logging.Level = level
	}
}

// SplitList splits a comma separated list, dropping blanks
func SplitList(s string) []string {
	return normalizeList(strings.Split(s, ","))
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Load loads configuration from all sources.
// Precedence: flags > environment > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".blogfinder.env"))
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
