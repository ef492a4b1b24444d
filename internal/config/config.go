package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultDSN       = "studiobook.db"
)

// Config holds every runtime setting of the api and worker binaries.
type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	AppVersion string `mapstructure:"APP_VERSION"`
	HTTPAddr   string `mapstructure:"HTTP_ADDR"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	SlotCacheTTL  time.Duration `mapstructure:"SLOT_CACHE_TTL"`

	AMQPURL        string `mapstructure:"AMQP_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`

	StripeSecretKey   string        `mapstructure:"STRIPE_SECRET_KEY"`
	PaymentCurrency   string        `mapstructure:"PAYMENT_CURRENCY"`
	ReconcileDelay    time.Duration `mapstructure:"RECONCILE_DELAY"`
	PaymentPendingTTL time.Duration `mapstructure:"PAYMENT_PENDING_TTL"`
	SweepSchedule     string        `mapstructure:"SWEEP_SCHEDULE"`

	RateAPIPerMinute    int `mapstructure:"RATE_API_PER_MINUTE"`
	RateBookingsPerHour int `mapstructure:"RATE_BOOKINGS_PER_HOUR"`
	RatePaymentsPerHour int `mapstructure:"RATE_PAYMENTS_PER_HOUR"`
}

var defaults = map[string]any{
	"APP_ENV":                "development",
	"APP_VERSION":            "1.0.0",
	"HTTP_ADDR":              ":8080",
	"DATABASE_URL":           defaultDSN,
	"JWT_SECRET":             defaultJWTSecret,
	"JWT_TTL":                "12h",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "",
	"CORS_ORIGINS":           "http://localhost:3000",
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"SLOT_CACHE_TTL":         "30s",
	"AMQP_URL":               "",
	"EVENTS_EXCHANGE":        "studio.events",
	"STRIPE_SECRET_KEY":      "",
	"PAYMENT_CURRENCY":       "usd",
	"RECONCILE_DELAY":        "15m",
	"PAYMENT_PENDING_TTL":    "24h",
	"SWEEP_SCHEDULE":         "@every 10m",
	"RATE_API_PER_MINUTE":    100,
	"RATE_BOOKINGS_PER_HOUR": 10,
	"RATE_PAYMENTS_PER_HOUR": 5,
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.PaymentCurrency = strings.ToLower(strings.TrimSpace(cfg.PaymentCurrency))
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SlotCacheTTL < 0 {
		return fmt.Errorf("SLOT_CACHE_TTL must be >= 0")
	}
	if cfg.ReconcileDelay <= 0 {
		return fmt.Errorf("RECONCILE_DELAY must be > 0")
	}
	if cfg.PaymentPendingTTL <= 0 {
		return fmt.Errorf("PAYMENT_PENDING_TTL must be > 0")
	}
	if len(cfg.PaymentCurrency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be an ISO 4217 code, got %q", cfg.PaymentCurrency)
	}
	if cfg.RateAPIPerMinute <= 0 || cfg.RateBookingsPerHour <= 0 || cfg.RatePaymentsPerHour <= 0 {
		return fmt.Errorf("rate limits must be > 0")
	}

	if cfg.IsProduction() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.StripeSecretKey) == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
		if isEmptyOrDefault(cfg.DatabaseURL, defaultDSN) {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
