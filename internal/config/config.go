// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DBURL       string `mapstructure:"DB_URL"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	GithubToken string `mapstructure:"GITHUB_TOKEN"`
	// GithubCacheSize bounds the number of file bodies kept in memory, keyed by blob SHA.
	GithubCacheSize int `mapstructure:"GITHUB_CACHE_SIZE"`

	UsersToSync  []string      `mapstructure:"USERS_TO_SYNC"`
	SyncInterval time.Duration `mapstructure:"SYNC_INTERVAL"`
	SyncMaxRepos int           `mapstructure:"SYNC_MAX_REPOS"`

	LLMProvider    string        `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey      string        `mapstructure:"LLM_API_KEY"`
	LLMBaseURL     string        `mapstructure:"LLM_BASE_URL"`
	LLMModel       string        `mapstructure:"LLM_MODEL"`
	LLMTimeout     time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMRatePerSec  float64       `mapstructure:"LLM_RATE"`
	LLMBurst       int           `mapstructure:"LLM_BURST"`
	LLMMaxTokens   int           `mapstructure:"LLM_MAX_TOKENS"`
	LLMTemperature float32       `mapstructure:"LLM_TEMPERATURE"`

	AnalysisConcurrency int `mapstructure:"ANALYSIS_CONCURRENCY"`

	AssetsEndpoint  string `mapstructure:"ASSETS_ENDPOINT"`
	AssetsRegion    string `mapstructure:"ASSETS_REGION"`
	AssetsAccessKey string `mapstructure:"ASSETS_ACCESS_KEY"`
	AssetsSecretKey string `mapstructure:"ASSETS_SECRET_KEY"`
	AssetsBucket    string `mapstructure:"ASSETS_BUCKET"`
	AssetsUseSSL    bool   `mapstructure:"ASSETS_USE_SSL"`

	// StorySeed seeds the story engine's random source; 0 picks a seed at start-up.
	StorySeed uint64 `mapstructure:"STORY_SEED"`
}

var keys = []string{
	"LOG_LEVEL", "DB_URL", "HTTP_ADDR", "GITHUB_TOKEN", "GITHUB_CACHE_SIZE",
	"USERS_TO_SYNC", "SYNC_INTERVAL", "SYNC_MAX_REPOS",
	"LLM_PROVIDER", "LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_TIMEOUT", "LLM_RATE", "LLM_BURST",
	"LLM_MAX_TOKENS", "LLM_TEMPERATURE",
	"ANALYSIS_CONCURRENCY",
	"ASSETS_ENDPOINT", "ASSETS_REGION", "ASSETS_ACCESS_KEY", "ASSETS_SECRET_KEY", "ASSETS_BUCKET", "ASSETS_USE_SSL",
	"STORY_SEED",
}

// LoadConfig reads configuration from .env in dir (if present) and the environment.
// Environment variables win over the file.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GITHUB_CACHE_SIZE", 512)
	v.SetDefault("SYNC_INTERVAL", "1h")
	v.SetDefault("SYNC_MAX_REPOS", 0)
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("LLM_RATE", 1.0)
	v.SetDefault("LLM_BURST", 1)
	v.SetDefault("LLM_MAX_TOKENS", 1000)
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("ANALYSIS_CONCURRENCY", 1)
	v.SetDefault("ASSETS_REGION", "us-east-1")
	v.SetDefault("ASSETS_BUCKET", "duck-assets")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind the ones without a default.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.UsersToSync = splitList(cfg.UsersToSync)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AssetsEnabled reports whether object storage is configured.
func (c *Config) AssetsEnabled() bool {
	return c.AssetsEndpoint != ""
}

func (c *Config) validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	if c.SyncInterval <= 0 {
		return errors.New("SYNC_INTERVAL must be positive")
	}
	if c.LLMTimeout <= 0 {
		return errors.New("LLM_TIMEOUT must be positive")
	}
	if c.LLMRatePerSec < 0 || c.LLMBurst < 0 {
		return errors.New("LLM_RATE and LLM_BURST must not be negative")
	}
	if c.AnalysisConcurrency < 1 {
		return errors.New("ANALYSIS_CONCURRENCY must be at least 1")
	}
	if c.SyncMaxRepos < 0 {
		return errors.New("SYNC_MAX_REPOS must not be negative")
	}
	if c.AssetsEnabled() && (c.AssetsAccessKey == "" || c.AssetsSecretKey == "") {
		return errors.New("ASSETS_ACCESS_KEY and ASSETS_SECRET_KEY are required when ASSETS_ENDPOINT is set")
	}
	return nil
}

// splitList accepts both "a,b" and "a b" in a single environment value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, f := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, f)
		}
	}
	return out
}
