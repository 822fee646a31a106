package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is built once at startup and passed by reference into every
// service and handler. Nothing outside this package reads the environment.
type Config struct {
	Server     ServerConfig
	Mongo      MongoConfig
	Plagiarism PlagiarismConfig
	Paystack   PaystackConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port string
	// Environment is "development" or "production". Internal error detail
	// is only surfaced to clients in development.
	Environment string
	JWTSecret   string
}

type MongoConfig struct {
	URI      string
	Database string
}

type PlagiarismConfig struct {
	APIKey  string
	BaseURL string
}

type PaystackConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	// Settlement account every successful payment is swept to.
	BankCode        string
	BankAccount     string
	BankAccountName string
	// FeeRate is the platform fee added on top of the project price at
	// initiation. TransferFeeRate is the processor cut deducted from the
	// payout at transfer time. They are distinct, intentional charges.
	FeeRate         float64
	TransferFeeRate float64
}

type AuthConfig struct {
	APIKey  string
	BaseURL string
}

type RateLimitConfig struct {
	// PerIP uses limiter's formatted syntax ("100-M" = 100/min).
	// Empty disables the inbound limiter.
	PerIP string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		viper.SetConfigFile(p)
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			Environment: getEnvOrDefault("ENVIRONMENT", "development"),
			JWTSecret:   getEnvOrDefault("JWT_SECRET", ""),
		},
		Mongo: MongoConfig{
			URI:      getEnvOrDefault("MONGOURI", ""),
			Database: getEnvOrDefault("MONGO_DATABASE", "researchxdb"),
		},
		Plagiarism: PlagiarismConfig{
			APIKey:  getEnvOrDefault("PLAGIARISM_API_KEY", ""),
			BaseURL: getEnvOrDefault("PLAGIARISM_BASE_URL", "https://api.plagiarismsearch.com"),
		},
		Paystack: PaystackConfig{
			SecretKey:       getEnvOrDefault("PAYSTACK_SECRET_KEY", ""),
			BaseURL:         getEnvOrDefault("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			CallbackURL:     getEnvOrDefault("PAYSTACK_CALLBACK_URL", ""),
			BankCode:        getEnvOrDefault("SETTLEMENT_BANK_CODE", ""),
			BankAccount:     getEnvOrDefault("SETTLEMENT_BANK_ACCOUNT", ""),
			BankAccountName: getEnvOrDefault("SETTLEMENT_BANK_ACCOUNT_NAME", ""),
			FeeRate:         viper.GetFloat64("PAYMENT_FEE_RATE"),
			TransferFeeRate: viper.GetFloat64("TRANSFER_FEE_RATE"),
		},
		Auth: AuthConfig{
			APIKey:  getEnvOrDefault("AUTH_PROVIDER_KEY", ""),
			BaseURL: getEnvOrDefault("AUTH_PROVIDER_URL", ""),
		},
		RateLimit: RateLimitConfig{
			PerIP: getEnvOrDefault("RATE_LIMIT_PER_IP", "100-M"),
		},
	}
	if cfg.Paystack.FeeRate <= 0 {
		cfg.Paystack.FeeRate = 0.05
	}
	if cfg.Paystack.TransferFeeRate <= 0 {
		cfg.Paystack.TransferFeeRate = 0.015
	}
	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGOURI is required")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsDevelopment reports whether internal error detail may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
