package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	VPBaseURL string
	VPUser    string
	VPPass    string
	VPClass   string

	SlackBotToken      string
	SlackSigningSecret string
	PlanChannelID      string

	DatabasePath string
	Port         string

	PollInterval    time.Duration
	AlwaysHeartbeat bool
	LogRawPlans     bool

	// DateOverride pins "today" to a fixed date (YYYY-MM-DD) for
	// deterministic testing. Empty means the wall clock.
	DateOverride string
}

func Load() *Config {
	return &Config{
		VPBaseURL:          getEnv("VP_BASE_URL", ""),
		VPUser:             getEnv("VP_USER", ""),
		VPPass:             getEnv("VP_PASS", ""),
		VPClass:            getEnv("VP_CLASS", "10E"),
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		PlanChannelID:      getEnv("PLAN_CHANNEL_ID", ""),
		DatabasePath:       getEnv("DATABASE_PATH", "./plan.db"),
		Port:               getEnv("PORT", "3000"),
		PollInterval:       getDurationEnv("POLL_INTERVAL", time.Minute),
		AlwaysHeartbeat:    getBoolEnv("ALWAYS_HEARTBEAT", false),
		LogRawPlans:        getBoolEnv("LOG_RAW_PLANS", false),
		DateOverride:       getEnv("DATE_OVERRIDE", ""),
	}
}

// Validate reports the required settings that are missing.
func (c *Config) Validate() error {
	required := map[string]string{
		"VP_BASE_URL":          c.VPBaseURL,
		"SLACK_BOT_TOKEN":      c.SlackBotToken,
		"SLACK_SIGNING_SECRET": c.SlackSigningSecret,
		"PLAN_CHANNEL_ID":      c.PlanChannelID,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("missing required configuration: %s", key)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
