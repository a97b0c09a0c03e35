package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported text-generation providers.
const (
	ProviderGemini    = "gemini"
	ProviderGeminiSDK = "gemini-sdk"
	ProviderGroq      = "groq"
)

// Supported key-value substrates.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the configuration for the application.
type Config struct {
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Groq      GroqConfig      `mapstructure:"groq"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// GeminiConfig configures the Gemini generateContent endpoint.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GroqConfig configures the Groq chat completions endpoint.
type GroqConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LLMConfig selects the provider used by the meal plan generator.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
}

// GeneratorConfig controls the meal plan generator.
type GeneratorConfig struct {
	// UseMock bypasses the remote endpoint and returns template plans.
	UseMock bool `mapstructure:"use_mock"`
}

// StorageConfig selects the key-value substrate.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// RedisConfig configures the Redis substrate.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig configures where generation metrics are pushed on exit.
type MetricsConfig struct {
	// PushgatewayURL disables pushing when empty.
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// Option adjusts a loaded Config before it is validated.
type Option func(*Config)

// WithMock forces template plans when useMock is true, which also lifts the
// API key requirement. false leaves the configured value alone.
func WithMock(useMock bool) Option {
	return func(c *Config) {
		if useMock {
			c.Generator.UseMock = true
		}
	}
}

// NewFromEnv creates a new Config object from environment variables (and a .env
// file or ./config.yaml when present).
func NewFromEnv(opts ...Option) (*Config, error) {
	return Load("", opts...)
}

// Load reads configuration from configPath (optional), then overrides it with
// MEALPLANNER_* environment variables.
func Load(configPath string, opts ...Option) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MEALPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", "30s")

	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")

	v.SetDefault("llm.provider", ProviderGemini)
	// Gemini free tier allows 15 RPM.
	v.SetDefault("llm.requests_per_minute", 15)

	v.SetDefault("generator.use_mock", false)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/meal-planner.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "mealplanner:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.development", false)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "meal_planner")
}

// Validate checks that the selected provider and storage driver are usable.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path must be set for the sqlite driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr must be set for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderGeminiSDK:
		if c.Gemini.APIKey == "" && !c.Generator.UseMock {
			return fmt.Errorf("MEALPLANNER_GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if c.Groq.APIKey == "" && !c.Generator.UseMock {
			return fmt.Errorf("MEALPLANNER_GROQ_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}
