package config

import (
	"fmt"

	pkgconfig "github.com/pixelcraft/booking-service/pkg/config"
)

// Gateway provider selectors.
const (
	GatewayRazorpay = "razorpay"
	GatewayMock     = "mock"
)

// Config holds all configuration for the booking service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"BOOKING_HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"booking"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"booking_secret"`
	PostgresDB   string `env:"BOOKING_DB_NAME" envDefault:"booking_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (wizard session store)
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Payment gateway. The mock provider lets the full checkout flow run
	// in development without live credentials.
	GatewayProvider       string `env:"PAYMENT_GATEWAY" envDefault:"mock"`
	RazorpayKeyID         string `env:"RAZORPAY_KEY_ID" envDefault:""`
	RazorpayKeySecret     string `env:"RAZORPAY_KEY_SECRET" envDefault:""`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET" envDefault:""`
	Currency              string `env:"BOOKING_CURRENCY" envDefault:"INR"`

	// Admin session tokens
	JWTSecret        string `env:"JWT_SECRET" envDefault:"dev_jwt_secret"`
	JWTExpiryMinutes int    `env:"JWT_EXPIRY_MINUTES" envDefault:"60"`

	// Circuit breaker settings for gateway calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load booking config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("BOOKING_CURRENCY must be a 3-letter code, got %q", c.Currency)
	}
	if c.SessionTTLMinutes < 1 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.GatewayProvider {
	case GatewayMock:
	case GatewayRazorpay:
		if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
			return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required when PAYMENT_GATEWAY=razorpay")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_GATEWAY %q", c.GatewayProvider)
	}
	return nil
}
