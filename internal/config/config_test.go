package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("VP_BASE_URL", "https://plan.example.net/mobil")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_SIGNING_SECRET", "secret")
	t.Setenv("PLAN_CHANNEL_ID", "C123456789")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	assert.Equal(t, "10E", cfg.VPClass)
	assert.Equal(t, "./plan.db", cfg.DatabasePath)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.False(t, cfg.AlwaysHeartbeat)
	assert.False(t, cfg.LogRawPlans)
	assert.Empty(t, cfg.DateOverride)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VP_CLASS", "12B")
	t.Setenv("POLL_INTERVAL", "5m")
	t.Setenv("ALWAYS_HEARTBEAT", "true")
	t.Setenv("DATE_OVERRIDE", "2025-05-21")

	cfg := Load()

	assert.Equal(t, "12B", cfg.VPClass)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.True(t, cfg.AlwaysHeartbeat)
	assert.Equal(t, "2025-05-21", cfg.DateOverride)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("ALWAYS_HEARTBEAT", "oui")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.False(t, cfg.AlwaysHeartbeat)
}

func TestLoadNegativeIntervalFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "-30s")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.PollInterval)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)
	require.NoError(t, Load().Validate())

	t.Setenv("SLACK_SIGNING_SECRET", "")
	err := Load().Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "SLACK_SIGNING_SECRET")
}
