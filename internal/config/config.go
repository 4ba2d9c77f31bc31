// Package config loads application configuration from config files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

const devSecretPlaceholder = "your-secret-key-change-in-production"

// Config holds every runtime setting. Values come from config.yml, an
// APP_ENV profile overlay, and environment variables, in that order.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	Env            string `mapstructure:"APP_ENV"`
	// FeedFetchWindow is how many recent completed doros the feed assembler
	// pulls before visibility filtering.
	FeedFetchWindow int `mapstructure:"FEED_FETCH_WINDOW"`
	// LeaderboardTimezone is the fallback week-boundary timezone for
	// leaderboard requests that do not carry one.
	LeaderboardTimezone string `mapstructure:"LEADERBOARD_TIMEZONE"`
	TracingEnabled      bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string `mapstructure:"OTLP_ENDPOINT"`
}

var defaults = map[string]any{
	"PORT":                 "8375",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "user",
	"DB_PASSWORD":          "password",
	"DB_NAME":              "crushquest",
	"DB_SSLMODE":           "disable",
	"REDIS_URL":            "localhost:6379",
	"JWT_SECRET":           devSecretPlaceholder,
	"ALLOWED_ORIGINS":      "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173",
	"FEATURE_FLAGS":        "friends_leaderboard=on,doro_images=on",
	"APP_ENV":              "development",
	"FEED_FETCH_WINDOW":    20,
	"LEADERBOARD_TIMEZONE": "America/New_York",
	"TRACING_ENABLED":      false,
	"TRACING_EXPORTER":     "stdout",
	"OTLP_ENDPOINT":        "localhost:4318",
}

// LoadConfig reads the base config, merges the APP_ENV profile overlay if
// one applies, applies defaults, and validates the result.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file may legitimately be absent when everything comes from
	// the environment.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}
	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("profile config 'config.%s.yml' not found: %w", env, err)
		}
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks required values, with stricter rules under production.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.FeedFetchWindow <= 0 {
		return errors.New("FEED_FETCH_WINDOW must be positive")
	}

	if c.Env != "production" && c.Env != "prod" {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters")
		}
		return nil
	}

	if c.JWTSecret == devSecretPlaceholder {
		return errors.New("JWT_SECRET must be changed from the default value in production")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	if c.DBPassword == "password" || c.DBPassword == "" {
		return errors.New("a strong DB_PASSWORD is required in production")
	}
	if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
		log.Println("WARNING: DB_SSLMODE is 'disable' in production")
	}
	if c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is '*' in production")
	}
	return nil
}
