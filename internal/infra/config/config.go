package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the notifier process.
type AppConfig struct {
	DatabaseURL string

	SendGridAPIKey  string
	SendGridFrom    string
	AiSensyAPIKey   string
	AiSensyCampaign string

	// MockMode swaps both senders for in-process mocks that log instead of
	// calling external APIs. Used for local development.
	MockMode bool

	LogLevel    string
	Environment string

	// One trigger spec per job. Standard 5-field cron expressions or
	// @every descriptors, evaluated in UTC.
	SpecSession24h   string
	SpecSession15min string
	SpecRecordings   string
	SpecAssignments  string
	SpecPayments     string
	SpecLeads        string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables; a missing
	// .env file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.MockMode = strings.ToLower(os.Getenv("MOCK_MODE")) == "true"

	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.AiSensyAPIKey = os.Getenv("AISENSY_API_KEY")
	if !cfg.MockMode {
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set (required unless MOCK_MODE=true)")
		}
		if cfg.AiSensyAPIKey == "" {
			return nil, fmt.Errorf("AISENSY_API_KEY is not set (required unless MOCK_MODE=true)")
		}
	}

	cfg.SendGridFrom = envOrDefault("SENDGRID_FROM_EMAIL", "noreply@yourdomain.com")
	cfg.AiSensyCampaign = envOrDefault("AISENSY_CAMPAIGN_NAME", "student_notifications")

	cfg.LogLevel = strings.ToLower(envOrDefault("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOrDefault("ENVIRONMENT", "development"))

	cfg.SpecSession24h = envOrDefault("CRON_SPEC_SESSION_24H", "@every 10m")
	cfg.SpecSession15min = envOrDefault("CRON_SPEC_SESSION_15MIN", "@every 5m")
	cfg.SpecRecordings = envOrDefault("CRON_SPEC_RECORDINGS", "@every 30m")
	cfg.SpecAssignments = envOrDefault("CRON_SPEC_ASSIGNMENTS", "0 */6 * * *")
	cfg.SpecPayments = envOrDefault("CRON_SPEC_PAYMENTS", "0 10 * * *")
	cfg.SpecLeads = envOrDefault("CRON_SPEC_LEADS", "0 9 * * *")

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
