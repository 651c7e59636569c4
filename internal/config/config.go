package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"stockDashboard/internal/finance"
)

// Price providers accepted by PRICE_PROVIDER.
const (
	ProviderYahoo    = "yahoo"
	ProviderYFinance = "yfinance"
)

type Config struct {
	Port             string
	DataDir          string
	CatalogPath      string
	DBPath           string
	PriceProvider    string
	PriceCacheTTL    time.Duration
	RiskFreeRate     float64
	DefaultPeriod    string
	OpenAIKey        string
	TelegramToken    string
	WebhookPublicURL string
	LogLevel         string
	LogPretty        bool
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists. Bot-only keys are read but not required here.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DataDir:          dataDir,
		CatalogPath:      getEnv("CATALOG_PATH", filepath.Join(dataDir, "companies.json")),
		DBPath:           getEnv("DB_PATH", filepath.Join(dataDir, "prices.db")),
		PriceProvider:    getEnv("PRICE_PROVIDER", ProviderYahoo),
		PriceCacheTTL:    time.Duration(getEnvAsInt("PRICE_CACHE_TTL", 360)) * time.Minute,
		RiskFreeRate:     getEnvAsFloat("RISK_FREE_RATE", 0),
		DefaultPeriod:    getEnv("DEFAULT_PERIOD", "1y"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", false),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.PriceProvider {
	case ProviderYahoo, ProviderYFinance:
	default:
		return fmt.Errorf("PRICE_PROVIDER must be %q or %q, got %q", ProviderYahoo, ProviderYFinance, c.PriceProvider)
	}
	if c.PriceCacheTTL < 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must not be negative")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	p, err := finance.ParsePeriod(c.DefaultPeriod)
	if err != nil {
		return fmt.Errorf("DEFAULT_PERIOD: %w", err)
	}
	c.DefaultPeriod = p
	return nil
}

// RequireBot checks the keys only the Telegram bot needs.
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("missing env TELEGRAM_BOT_TOKEN")
	}
	if c.WebhookPublicURL == "" {
		return fmt.Errorf("missing env WEBHOOK_PUBLIC_URL")
	}
	return nil
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
