// Package config handles configuration loading and management for the copilot.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/copilot/internal/planner"
	"github.com/ShayCichocki/copilot/pkg/models"
)

// ProjectConfigName is the per-project override file, searched upward from
// the working directory.
const ProjectConfigName = ".copilot.yaml"

// Config holds all configuration for the copilot.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
	MaxTokens  int64  `mapstructure:"max_tokens"`
}

// PlannerConfig holds the planning rules.
type PlannerConfig struct {
	PrimaryProject   string `mapstructure:"primary_project"`
	WorkStart        string `mapstructure:"work_start"`
	WorkEnd          string `mapstructure:"work_end"`
	MorningFocus     bool   `mapstructure:"morning_focus"`
	PreferLongBlocks bool   `mapstructure:"prefer_long_blocks"`
	// Timezone is an IANA name or "Local".
	Timezone string `mapstructure:"timezone"`
}

// TrackerConfig holds Jira settings. An empty URL means demo data.
type TrackerConfig struct {
	URL              string        `mapstructure:"url"`
	Email            string        `mapstructure:"email"`
	APIToken         string        `mapstructure:"api_token"`
	StoryPointsField string        `mapstructure:"story_points_field"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// SourcesConfig names YAML fixture files. Empty paths use the demo source.
type SourcesConfig struct {
	TasksFile    string `mapstructure:"tasks_file"`
	CalendarFile string `mapstructure:"calendar_file"`
}

// KnowledgeConfig holds knowledge base settings.
type KnowledgeConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	JWTSecret      string   `mapstructure:"jwt_secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig holds debug log settings.
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// secretKeys are masked when shown.
var secretKeys = map[string]bool{
	"anthropic.api_key": true,
	"tracker.api_token": true,
	"server.jwt_secret": true,
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, JIRA_API_TOKEN, COPILOT_JWT_SECRET)
// 2. Project config (.copilot.yaml in current directory or parent)
// 3. User config (~/.config/copilot/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v, err := load()
	if err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func load() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config %s: %w", projectConfig, err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)
	return v, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	bindEnv(v)
	return unmarshal(v)
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("tracker.api_token", "JIRA_API_TOKEN")
	v.BindEnv("tracker.url", "JIRA_URL")
	v.BindEnv("tracker.email", "JIRA_EMAIL")
	v.BindEnv("server.jwt_secret", "COPILOT_JWT_SECRET")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in secrets.
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Tracker.APIToken = expandEnv(cfg.Tracker.APIToken)
	cfg.Server.JWTSecret = expandEnv(cfg.Server.JWTSecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at run time.
func (c *Config) Validate() error {
	if _, err := c.WorkHours(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Anthropic.MaxTokens < 0 {
		return fmt.Errorf("invalid config: anthropic.max_tokens must not be negative")
	}
	return nil
}

// WorkHours parses planner.work_start and planner.work_end.
func (c *Config) WorkHours() (planner.WorkHours, error) {
	return planner.ParseWorkHours(c.Planner.WorkStart, c.Planner.WorkEnd)
}

// Location resolves planner.timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Planner.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Planner.Timezone)
	if err != nil {
		return nil, fmt.Errorf("planner.timezone: %w", err)
	}
	return loc, nil
}

// Preferences returns the configured allocation preferences.
func (c *Config) Preferences() models.Preferences {
	return models.Preferences{
		MorningFocus:     c.Planner.MorningFocus,
		PreferLongBlocks: c.Planner.PreferLongBlocks,
	}
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	v := viper.New()
	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("planner.primary_project", cfg.Planner.PrimaryProject)
	v.Set("planner.work_start", cfg.Planner.WorkStart)
	v.Set("planner.work_end", cfg.Planner.WorkEnd)
	v.Set("planner.morning_focus", cfg.Planner.MorningFocus)
	v.Set("planner.prefer_long_blocks", cfg.Planner.PreferLongBlocks)
	v.Set("planner.timezone", cfg.Planner.Timezone)
	v.Set("tracker.url", cfg.Tracker.URL)
	v.Set("tracker.email", cfg.Tracker.Email)
	v.Set("tracker.api_token", cfg.Tracker.APIToken)
	v.Set("tracker.story_points_field", cfg.Tracker.StoryPointsField)
	v.Set("tracker.timeout", cfg.Tracker.Timeout.String())
	v.Set("sources.tasks_file", cfg.Sources.TasksFile)
	v.Set("sources.calendar_file", cfg.Sources.CalendarFile)
	v.Set("knowledge.db_path", cfg.Knowledge.DBPath)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.jwt_secret", cfg.Server.JWTSecret)
	v.Set("server.allowed_origins", cfg.Server.AllowedOrigins)
	v.Set("logging.enabled", cfg.Logging.Enabled)
	v.Set("logging.path", cfg.Logging.Path)
	return writeUserConfig(v)
}

func writeUserConfig(v *viper.Viper) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Keys lists every known configuration key, sorted.
func Keys() []string {
	v := viper.New()
	setDefaults(v)
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a configuration key.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// IsSecret reports whether a key's value should be masked when shown.
func IsSecret(key string) bool {
	return secretKeys[strings.ToLower(key)]
}

// Value returns the effective value of key after all sources are merged.
func Value(key string) (interface{}, error) {
	if !IsKnownKey(key) {
		return nil, fmt.Errorf("unknown config key %q", key)
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	return v.Get(key), nil
}

// SetUserValue sets key in the user config file. The result must still
// validate.
func SetUserValue(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	v := viper.New()
	path := GetUserConfigPath()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading user config: %w", err)
		}
	}
	if key == "server.allowed_origins" {
		v.Set(key, splitList(value))
	} else {
		v.Set(key, value)
	}

	check := viper.New()
	setDefaults(check)
	if err := check.MergeConfigMap(v.AllSettings()); err != nil {
		return fmt.Errorf("merging config: %w", err)
	}
	if _, err := unmarshal(check); err != nil {
		return err
	}
	return writeUserConfig(v)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("anthropic.api_key", d.Anthropic.APIKey)
	v.SetDefault("anthropic.model", d.Anthropic.Model)
	v.SetDefault("anthropic.use_bedrock", d.Anthropic.UseBedrock)
	v.SetDefault("anthropic.aws_region", d.Anthropic.AWSRegion)
	v.SetDefault("anthropic.aws_profile", d.Anthropic.AWSProfile)
	v.SetDefault("anthropic.max_tokens", d.Anthropic.MaxTokens)

	v.SetDefault("planner.primary_project", d.Planner.PrimaryProject)
	v.SetDefault("planner.work_start", d.Planner.WorkStart)
	v.SetDefault("planner.work_end", d.Planner.WorkEnd)
	v.SetDefault("planner.morning_focus", d.Planner.MorningFocus)
	v.SetDefault("planner.prefer_long_blocks", d.Planner.PreferLongBlocks)
	v.SetDefault("planner.timezone", d.Planner.Timezone)

	v.SetDefault("tracker.url", d.Tracker.URL)
	v.SetDefault("tracker.email", d.Tracker.Email)
	v.SetDefault("tracker.api_token", d.Tracker.APIToken)
	v.SetDefault("tracker.story_points_field", d.Tracker.StoryPointsField)
	v.SetDefault("tracker.timeout", d.Tracker.Timeout.String())

	v.SetDefault("sources.tasks_file", d.Sources.TasksFile)
	v.SetDefault("sources.calendar_file", d.Sources.CalendarFile)

	v.SetDefault("knowledge.db_path", d.Knowledge.DBPath)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.jwt_secret", d.Server.JWTSecret)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.path", d.Logging.Path)
}

// getUserConfigDir returns the XDG config directory for the copilot.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "copilot")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "copilot")
	}
	return filepath.Join(home, ".config", "copilot")
}

// getUserDataDir returns the XDG data directory for the copilot.
func getUserDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "copilot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share", "copilot")
	}
	return filepath.Join(home, ".local", "share", "copilot")
}

// findProjectConfig searches for .copilot.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	dataDir := getUserDataDir()
	return &Config{
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-20250514",
			AWSRegion: "us-east-1",
			MaxTokens: 8192,
		},
		Planner: PlannerConfig{
			PrimaryProject:   "Phoenix",
			WorkStart:        "09:00",
			WorkEnd:          "18:00",
			MorningFocus:     true,
			PreferLongBlocks: true,
			Timezone:         "Local",
		},
		Tracker: TrackerConfig{
			StoryPointsField: "customfield_10016",
			Timeout:          30 * time.Second,
		},
		Knowledge: KnowledgeConfig{
			DBPath: filepath.Join(dataDir, "knowledge.db"),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Enabled: false,
			Path:    filepath.Join(dataDir, "logs", "copilot-debug.log"),
		},
	}
}
