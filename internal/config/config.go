package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	Port                   string `mapstructure:"PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	SeedUsers              bool   `mapstructure:"SEED_USERS"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// HTTPConfig holds router-level switches
type HTTPConfig struct {
	AllowedOrigins []string `mapstructure:"-"` // CORS_ALLOWED_ORIGINS, split by LoadConfig
	MetricsEnabled bool     `mapstructure:"METRICS_ENABLED"`
	SwaggerEnabled bool     `mapstructure:"SWAGGER_ENABLED"`
}

// RateLimitConfig holds configuration for the Redis backed rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
}

// LoadConfig reads app.env from path, if present, and overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // app.env
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config

	// keys are flat, so every section decodes from the same settings map
	sections := []any{&config.App, &config.Logger, &config.HTTP, &config.RateLimit, &config.Redis}
	for _, section := range sections {
		if err := v.Unmarshal(section); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	// comma separated, trimmed
	config.HTTP.AllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("SEED_USERS", true)

	// APP_ENV may only be known from the environment at this point
	v.AutomaticEnv()
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("SERVICE_NAME", "rest-user-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SWAGGER_ENABLED", true)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
}

// Validate checks the loaded values before any dependency is built.
func (c *Config) Validate() error {
	var errs []error

	if err := validatePort("PORT", c.App.Port); err != nil {
		errs = append(errs, err)
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive, got %d", c.App.ShutdownTimeoutSeconds))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RequestsPerSecond))
		}
		if c.RateLimit.BurstCapacity <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimit.BurstCapacity))
		}
		if err := validatePort("REDIS_PORT", c.Redis.Port); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Address returns the listen address for the HTTP server.
func (c *AppConfig) Address() string {
	return ":" + c.Port
}

func validatePort(key, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("%s must be a port number between 0 and 65535, got %q", key, value)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
