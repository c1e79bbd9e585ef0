package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	OrderStorePostgres = "postgres"
	OrderStoreMemory   = "memory"
)

type Config struct {
	HTTPPort int `env:"HTTP_PORT"`

	DBConfig struct {
		DBHost     string `env:"PAYMENTS_DB_HOST"`
		DBPort     int    `env:"PAYMENTS_DB_PORT"`
		DBUser     string `env:"PAYMENTS_DB_USER"`
		DBPassword string `env:"PAYMENTS_DB_PASSWORD"`
		DBName     string `env:"PAYMENTS_DB_NAME"`
		DBSSLMode  string `env:"PAYMENTS_DB_SSLMODE"`
	}
	MigrationsPath string `env:"MIGRATIONS_PATH"`
	OrderStore     string `env:"ORDER_STORE"`

	RazorpayAPIKey    string        `env:"RAZORPAY_API_KEY"`
	RazorpayAPISecret string        `env:"RAZORPAY_API_SECRET"`
	RazorpayBaseURL   string        `env:"RAZORPAY_BASE_URL"`
	RazorpayTimeout   time.Duration `env:"RAZORPAY_TIMEOUT"`

	PaymentCurrency        string `env:"PAYMENT_CURRENCY"`
	PaymentCallbackBaseURL string `env:"PAYMENT_CALLBACK_BASE_URL"`

	KafkaBrokerURL          string `env:"KAFKA_BROKER_URL"`
	KafkaPaymentEventsTopic string `env:"KAFKA_PAYMENT_EVENTS_TOPIC"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("HTTP_PORT", 8082)

	cfg.DBConfig.DBHost = getEnvOrDefault("PAYMENTS_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvAsInt("PAYMENTS_DB_PORT", 5432)
	cfg.DBConfig.DBUser = getEnvOrDefault("PAYMENTS_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("PAYMENTS_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("PAYMENTS_DB_NAME", "ecommerce")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("PAYMENTS_DB_SSLMODE", "disable")
	cfg.MigrationsPath = getEnvOrDefault("MIGRATIONS_PATH", "file://migrations")

	cfg.OrderStore = strings.ToLower(getEnvOrDefault("ORDER_STORE", OrderStorePostgres))
	if cfg.OrderStore != OrderStorePostgres && cfg.OrderStore != OrderStoreMemory {
		return nil, fmt.Errorf("invalid ORDER_STORE %q: must be %q or %q", cfg.OrderStore, OrderStorePostgres, OrderStoreMemory)
	}

	cfg.RazorpayAPIKey = getEnvOrDefault("RAZORPAY_API_KEY", "")
	cfg.RazorpayAPISecret = getEnvOrDefault("RAZORPAY_API_SECRET", "")
	if cfg.RazorpayAPIKey == "" || cfg.RazorpayAPISecret == "" {
		return nil, errors.New("RAZORPAY_API_KEY and RAZORPAY_API_SECRET are required")
	}
	cfg.RazorpayBaseURL = getEnvOrDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")
	cfg.RazorpayTimeout = getEnvAsDuration("RAZORPAY_TIMEOUT", 10*time.Second)

	cfg.PaymentCurrency = getEnvOrDefault("PAYMENT_CURRENCY", "INR")
	cfg.PaymentCallbackBaseURL = getEnvOrDefault("PAYMENT_CALLBACK_BASE_URL", "http://localhost:3000/payments/")

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "")
	cfg.KafkaPaymentEventsTopic = getEnvOrDefault("KAFKA_PAYMENT_EVENTS_TOPIC", "payment_confirmations")

	cfg.CORSAllowedOrigins = getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	return cfg, nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}

// GetKafkaBrokers returns nil when event publishing is disabled.
func (c *Config) GetKafkaBrokers() []string {
	if strings.TrimSpace(c.KafkaBrokerURL) == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokerURL, ",")
}

func (c *Config) GetCORSAllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
