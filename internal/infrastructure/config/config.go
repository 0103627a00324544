package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	DeepSeek    DeepSeekConfig  `mapstructure:"deepseek"`
	Nutrition   NutritionConfig `mapstructure:"nutrition"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Storage     StorageConfig   `mapstructure:"storage"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DeepSeekConfig holds the LLM fallback settings. The pipeline treats an
// empty API key as "not configured" and never escalates.
type DeepSeekConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the DeepSeek fallback can be used.
func (c DeepSeekConfig) Enabled() bool {
	return c.APIKey != ""
}

// NutritionConfig holds pipeline tuning knobs.
type NutritionConfig struct {
	// ConfidenceThreshold is the per-record confidence below which (strictly)
	// the pipeline escalates to DeepSeek. Configuration, not a contract.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MemorySize          int     `mapstructure:"memory_size"`
}

// CacheConfig holds LLM response cache settings.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig loads configuration from .env / environment.
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables still apply without it.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("deepseek.api_key", "DEEPSEEK_API_KEY")
	viper.BindEnv("deepseek.base_url", "DEEPSEEK_BASE_URL")
	viper.BindEnv("deepseek.model", "DEEPSEEK_MODEL")
	viper.BindEnv("deepseek.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("nutrition.confidence_threshold", "MIN_CONFIDENCE_FOR_API")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("storage.path", "STORAGE_PATH")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	fmt.Println("Loading configuration",
		"deepseek_api_key:", maskAPIKey(viper.GetString("deepseek.api_key")),
		"deepseek_model:", viper.GetString("deepseek.model"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey shows only the first/last 4 characters of the key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "2.0.0")
	viper.SetDefault("app.name", "nutrition-chat")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	viper.SetDefault("deepseek.model", "deepseek-chat")
	viper.SetDefault("deepseek.max_tokens", 1000)
	viper.SetDefault("deepseek.temperature", 0.3)
	viper.SetDefault("deepseek.timeout", "30s")

	viper.SetDefault("nutrition.confidence_threshold", 0.7)
	viper.SetDefault("nutrition.memory_size", 3)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	// Short on purpose: the cache only suppresses duplicate LLM calls for
	// the same input within a small window, it is not a response store.
	viper.SetDefault("cache.ttl", "5s")
	viper.SetDefault("cache.cleanup_interval", "1m")
	viper.SetDefault("cache.redis_addr", "")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("storage.path", "nutrition.db")

	viper.SetDefault("dedup_window", "1s")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Nutrition.ConfidenceThreshold < 0 || config.Nutrition.ConfidenceThreshold > 1 {
		return fmt.Errorf("invalid confidence threshold")
	}
	if config.Nutrition.MemorySize <= 0 {
		return fmt.Errorf("invalid memory size")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	return nil
}
