// Package config loads application configuration from config files,
// environment variables, and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/giftmatch/catalog-ingest/internal/logger"
)

// Config holds all configuration for the application.
type Config struct {
	Log      logger.Config  `mapstructure:"log"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Database DatabaseConfig `mapstructure:"database"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// ScraperConfig holds listing-page fetch configuration.
type ScraperConfig struct {
	// MinDelay and MaxDelay bound the randomized pause between fetches.
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// UserAgents is the identity pool requests rotate through.
	UserAgents []string `mapstructure:"user_agents"`
}

// OpenAIConfig holds enrichment and embedding API configuration.
type OpenAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds catalog database connection configuration.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// PipelineConfig holds pipeline artifact handling configuration.
type PipelineConfig struct {
	// OutputDir, when set, is where intermediate artifacts are written.
	OutputDir string `mapstructure:"output_dir"`
	// KeepFiles retains intermediate artifacts after the run.
	KeepFiles bool `mapstructure:"keep_files"`
}

// defaultUserAgents is the built-in request identity pool.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Load loads configuration from config file, environment variables, and
// defaults. The config file is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CATALOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine: environment variables and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetDefault("scraper.min_delay", "2s")
	v.SetDefault("scraper.max_delay", "5s")
	v.SetDefault("scraper.request_timeout", "15s")
	v.SetDefault("scraper.user_agents", defaultUserAgents)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.request_timeout", "60s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "giftmatch")
	v.SetDefault("database.sslmode", "require")
}

// Validate checks configuration invariants that would otherwise surface as
// confusing mid-batch failures.
func (c *Config) Validate() error {
	if c.Scraper.MinDelay < 0 || c.Scraper.MaxDelay < 0 {
		return errors.New("scraper delays must be non-negative")
	}
	if c.Scraper.MaxDelay < c.Scraper.MinDelay {
		return fmt.Errorf("scraper.max_delay (%s) must be >= scraper.min_delay (%s)",
			c.Scraper.MaxDelay, c.Scraper.MinDelay)
	}
	if len(c.Scraper.UserAgents) == 0 {
		return errors.New("scraper.user_agents must not be empty")
	}
	return nil
}
