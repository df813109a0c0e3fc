// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	User       string `json:"user"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	SSLMode    string `json:"sslmode"`
	SearchPath string `json:"schema"`
}

// DSN builds the keyword/value connection string for the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.SearchPath,
	)
}

type Config struct {
	Database DatabaseConfig `json:"database"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Stripe struct {
		SecretKey     string        `json:"secret_key"`
		WebhookSecret string        `json:"webhook_secret"`
		CallTimeout   time.Duration `json:"call_timeout"`

		// One price per (deployment type, billing period) pair.
		PriceManagedCloudMonthly string `json:"price_managed_cloud_monthly"`
		PriceManagedCloudYearly  string `json:"price_managed_cloud_yearly"`
		PriceOnPremiseMonthly    string `json:"price_on_premise_monthly"`
		PriceOnPremiseYearly     string `json:"price_on_premise_yearly"`
	} `json:"stripe"`
	Ingest struct {
		// Token authenticates usage-report submissions from remote
		// deployments. Must be set; there is no default.
		Token string `json:"token"`
	} `json:"ingest"`
	Sendgrid struct {
		APIKey   string `json:"api_key"`
		From     string `json:"from"`
		FromName string `json:"from_name"`
	} `json:"sendgrid"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"smtp"`
	BaseURL string `json:"base_url"`
}

func Load() *Config {
	cfg := &Config{}

	// Database configuration
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "billingd")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = time.Hour * 24

	// Stripe configuration
	cfg.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	cfg.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")
	cfg.Stripe.CallTimeout = time.Second * 10
	cfg.Stripe.PriceManagedCloudMonthly = getEnv("STRIPE_PRICE_MANAGED_MONTHLY", "")
	cfg.Stripe.PriceManagedCloudYearly = getEnv("STRIPE_PRICE_MANAGED_YEARLY", "")
	cfg.Stripe.PriceOnPremiseMonthly = getEnv("STRIPE_PRICE_ON_PREMISE_MONTHLY", "")
	cfg.Stripe.PriceOnPremiseYearly = getEnv("STRIPE_PRICE_ON_PREMISE_YEARLY", "")

	// Ingest configuration
	cfg.Ingest.Token = getEnv("INGEST_TOKEN", "")

	// Sendgrid configuration
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.Sendgrid.From = getEnv("SENDGRID_FROM", "")
	cfg.Sendgrid.FromName = getEnv("SENDGRID_FROM_NAME", "Billing")

	// SMTP fallback configuration
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	if port, err := strconv.Atoi(getEnv("SMTP_PORT", "587")); err == nil {
		cfg.SMTP.Port = port
	}
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
