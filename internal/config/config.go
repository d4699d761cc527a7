package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Stripe    StripeConfig
	Retry     RetryConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	SMTP      SMTPConfig
}

type StripeConfig struct {
	SecretKey          string
	WebhookSecret      string
	APIBase            string
	Currency           string
	MaxAmountCents     int64
	SignatureTolerance time.Duration
}

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

type RateLimitConfig struct {
	Attempts int
	Window   time.Duration
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "stayflow"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "stayflow"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Stripe: StripeConfig{
			SecretKey:          strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			WebhookSecret:      strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
			APIBase:            getenv("STRIPE_API_BASE", "https://api.stripe.com"),
			Currency:           strings.ToLower(getenv("STRIPE_CURRENCY", "usd")),
			MaxAmountCents:     getenvInt64("STRIPE_MAX_AMOUNT_CENTS", 10000000),
			SignatureTolerance: getenvSeconds("STRIPE_SIGNATURE_TOLERANCE_SECONDS", 300*time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts:  getenvInt("STRIPE_RETRY_MAX_ATTEMPTS", 3),
			InitialDelay: getenvMillis("STRIPE_RETRY_INITIAL_DELAY_MS", time.Second),
			MaxDelay:     getenvMillis("STRIPE_RETRY_MAX_DELAY_MS", 10*time.Second),
			Multiplier:   getenvFloat("STRIPE_RETRY_MULTIPLIER", 2.0),
		},
		RateLimit: RateLimitConfig{
			Attempts: getenvInt("STRIPE_RATE_LIMIT_ATTEMPTS", 5),
			Window:   getenvSeconds("STRIPE_RATE_LIMIT_WINDOW_SECONDS", 60*time.Second),
		},
		Webhook: WebhookConfig{
			IdempotencyTTL: getenvSeconds("STRIPE_WEBHOOK_IDEMPOTENCY_TTL_SECONDS", 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host: getenv("SMTP_HOST", ""),
			Port: getenv("SMTP_PORT", "587"),
			From: getenv("SMTP_FROM", "no-reply@stayflow.local"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvMillis(key string, def time.Duration) time.Duration {
	value := getenvInt64(key, 0)
	if value <= 0 {
		return def
	}
	return time.Duration(value) * time.Millisecond
}

func getenvSeconds(key string, def time.Duration) time.Duration {
	value := getenvInt64(key, 0)
	if value <= 0 {
		return def
	}
	return time.Duration(value) * time.Second
}

// Module wires configuration loading for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
)
