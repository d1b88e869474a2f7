package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Viewer   ViewerConfig
	Geocoder GeocoderConfig
	Redis    RedisConfig
	OTEL     OTELConfig
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Environment string
	LogLevel    string
	Timezone    string
}

// ViewerConfig holds defaults for the place listing view
type ViewerConfig struct {
	MinReviewCount int
}

// GeocoderConfig holds distance-center search configuration
type GeocoderConfig struct {
	Providers       []string
	PhotonURL       string
	NominatimURL    string
	Limit           int
	CountryCodes    string
	Language        string
	MinQueryLength  int
	Timeout         time.Duration
	RatePerSecond   float64
	MaxAttempts     int
	UserAgent       string
	CacheTTLSeconds int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Timezone:    getEnv("PLACEVIEW_TIMEZONE", "Asia/Seoul"),
		},
		Viewer: ViewerConfig{
			MinReviewCount: getEnvAsInt("PLACEVIEW_MIN_REVIEW", 50),
		},
		Geocoder: GeocoderConfig{
			Providers:       getEnvAsList("GEOCODER_PROVIDERS", []string{"photon", "nominatim"}),
			PhotonURL:       getEnv("GEOCODER_PHOTON_URL", "https://photon.komoot.io/api/"),
			NominatimURL:    getEnv("GEOCODER_NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			Limit:           getEnvAsInt("GEOCODER_LIMIT", 8),
			CountryCodes:    getEnv("GEOCODER_COUNTRY_CODES", "kr"),
			Language:        getEnv("GEOCODER_LANGUAGE", "ko"),
			MinQueryLength:  getEnvAsInt("GEOCODER_MIN_QUERY", 2),
			Timeout:         getEnvAsDuration("GEOCODER_TIMEOUT", 8*time.Second),
			RatePerSecond:   getEnvAsFloat("GEOCODER_RATE_PER_SEC", 1),
			MaxAttempts:     getEnvAsInt("GEOCODER_MAX_ATTEMPTS", 2),
			UserAgent:       getEnv("GEOCODER_USER_AGENT", "placeviewer/1.0"),
			CacheTTLSeconds: getEnvAsInt("GEOCODER_CACHE_TTL_SECONDS", 60*60*24*30),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "placeviewer"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid PLACEVIEW_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	for _, p := range c.Geocoder.Providers {
		switch p {
		case "photon", "nominatim", "mock":
		default:
			return fmt.Errorf("unknown geocoder provider %q", p)
		}
	}
	if c.Geocoder.Limit <= 0 {
		return fmt.Errorf("GEOCODER_LIMIT must be positive, got %d", c.Geocoder.Limit)
	}
	return nil
}

// Location returns the configured reference-time zone
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
