// Package config loads the habitcoach settings file and resolves secrets
// from the environment and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/keyring"
	"github.com/julianstephens/habitcoach/internal/utils"
)

var (
	getenv     = os.Getenv
	keyringGet = keyring.Get
)

// Config is the on-disk settings file.
type Config struct {
	AI       AIConfig       `yaml:"ai"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
	// Prefer the keyring or HABITCOACH_AI_API_KEY over storing the key here.
	APIKey string `yaml:"api_key,omitempty"`
}

type ScheduleConfig struct {
	Daily     string `yaml:"daily"`
	Weekly    string `yaml:"weekly"`
	Timezone  string `yaml:"timezone,omitempty"`
	RetryBase string `yaml:"retry_base,omitempty"`
}

type NotifyConfig struct {
	Tray     bool           `yaml:"tray"`
	Telegram TelegramConfig `yaml:"telegram,omitempty"`
}

type TelegramConfig struct {
	ChatID int64  `yaml:"chat_id,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Provider: constants.AIProviderOpenAI,
			Timeout:  constants.DefaultAITimeout.String(),
		},
		Schedule: ScheduleConfig{
			Daily:     constants.DefaultDailyCron,
			Weekly:    constants.DefaultWeeklyCron,
			RetryBase: constants.JobRetryBaseDelay.String(),
		},
		Notify: NotifyConfig{
			Tray: true,
		},
	}
}

// Load reads the settings file at path, falling back to defaults when it
// does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the settings file, creating its directory.
func (c *Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if p := getenv(constants.EnvAIProvider); p != "" {
		c.AI.Provider = strings.ToLower(p)
	}
}

// ValidProviders lists the supported AI gateways.
var ValidProviders = []string{constants.AIProviderOpenAI, constants.AIProviderGemini}

// Validate checks values that would otherwise fail much later at runtime.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.AI.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid AI provider: %q (valid: %v)", c.AI.Provider, ValidProviders)
	}

	if c.Schedule.Timezone != "" {
		if !utils.ValidateTimezone(c.Schedule.Timezone) {
			return fmt.Errorf("invalid schedule.timezone: %q", c.Schedule.Timezone)
		}
	}

	for name, d := range map[string]string{"ai.timeout": c.AI.Timeout, "schedule.retry_base": c.Schedule.RetryBase} {
		if d == "" {
			continue
		}
		if parsed, err := time.ParseDuration(d); err != nil || parsed <= 0 {
			return fmt.Errorf("invalid %s: %q", name, d)
		}
	}
	return nil
}

// AITimeout returns the per-request timeout for the AI gateway.
func (c *Config) AITimeout() time.Duration {
	return parseDurationOr(c.AI.Timeout, constants.DefaultAITimeout)
}

// RetryBase returns the base backoff delay between job attempts.
func (c *Config) RetryBase() time.Duration {
	return parseDurationOr(c.Schedule.RetryBase, constants.JobRetryBaseDelay)
}

// AIModel returns the configured model or the provider default.
func (c *Config) AIModel() string {
	if c.AI.Model != "" {
		return c.AI.Model
	}
	if c.AI.Provider == constants.AIProviderGemini {
		return constants.DefaultGeminiModel
	}
	return constants.DefaultOpenAIModel
}

// Location returns the timezone that defines "today".
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Schedule.Timezone)
}

// AIKey resolves the AI API key from the environment, keyring, then file.
func (c *Config) AIKey() string {
	return resolveSecret(constants.EnvAIAPIKey, keyring.KindAI, c.AI.APIKey)
}

// TelegramToken resolves the Telegram bot token from the environment,
// keyring, then file.
func (c *Config) TelegramToken() string {
	return resolveSecret(constants.EnvTelegramToken, keyring.KindTelegram, c.Notify.Telegram.Token)
}

// DBConnection resolves a PostgreSQL connection string from the environment
// or keyring. An empty result means the --config flag should be used as is.
func DBConnection() string {
	return resolveSecret(constants.EnvDBConnection, keyring.KindDatabase, "")
}

func resolveSecret(env string, kind keyring.Kind, fromFile string) string {
	if v := getenv(env); v != "" {
		return v
	}
	if v, err := keyringGet(kind); err == nil && v != "" {
		return v
	}
	return fromFile
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
