package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app?sslmode=disable")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("AISENSY_API_KEY", "as-key")
	t.Setenv("MOCK_MODE", "")
	t.Setenv("SENDGRID_FROM_EMAIL", "")
	t.Setenv("AISENSY_CAMPAIGN_NAME", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_SESSION_24H", "")
	t.Setenv("CRON_SPEC_SESSION_15MIN", "")
	t.Setenv("CRON_SPEC_RECORDINGS", "")
	t.Setenv("CRON_SPEC_ASSIGNMENTS", "")
	t.Setenv("CRON_SPEC_PAYMENTS", "")
	t.Setenv("CRON_SPEC_LEADS", "")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.MockMode)
	assert.Equal(t, "noreply@yourdomain.com", cfg.SendGridFrom)
	assert.Equal(t, "student_notifications", cfg.AiSensyCampaign)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "@every 10m", cfg.SpecSession24h)
	assert.Equal(t, "@every 5m", cfg.SpecSession15min)
	assert.Equal(t, "@every 30m", cfg.SpecRecordings)
	assert.Equal(t, "0 */6 * * *", cfg.SpecAssignments)
	assert.Equal(t, "0 10 * * *", cfg.SpecPayments)
	assert.Equal(t, "0 9 * * *", cfg.SpecLeads)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_SenderKeysRequiredUnlessMockMode(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SENDGRID_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SENDGRID_API_KEY")

	t.Setenv("MOCK_MODE", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MockMode)
}

func TestLoad_SpecOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CRON_SPEC_PAYMENTS", "30 11 * * *")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "30 11 * * *", cfg.SpecPayments)
	assert.Equal(t, "debug", cfg.LogLevel)
}
