package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOWNSELL_DISCOUNT", "")
	t.Setenv("OTEL_ENABLED", "")

	cfg := Load()

	assert.Equal(t, 1000, cfg.Flow.DownsellDiscount)
	assert.Equal(t, 25, cfg.Flow.FeedbackMinLength)
	assert.Equal(t, "csrf_token", cfg.Auth.CsrfCookieName)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("DOWNSELL_DISCOUNT", "500")
	t.Setenv("EVENT_BUS", "nats")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CSRF_COOKIE_SECURE", "1")
	t.Setenv("ACCESS_PERIOD_DAYS", "not-a-number")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")

	cfg := Load()

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 500, cfg.Flow.DownsellDiscount)
	assert.Equal(t, EventBusNats, cfg.Events.Bus)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Auth.CsrfCookieSecure)
	assert.Equal(t, 30, cfg.Flow.AccessPeriodDays)
	assert.Equal(t, "redis://cache:6379/1", cfg.App.RedisURL)
}
