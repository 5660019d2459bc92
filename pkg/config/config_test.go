package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "@daily", cfg.Cache.FlushCron)
	assert.Equal(t, "Africa/Cairo", cfg.Schedule.Location.String())
	assert.Equal(t, 4, cfg.Schedule.LookaheadWeeks)
	assert.Equal(t, 15, cfg.Schedule.MinSlotMinutes)
	assert.Equal(t, 45, cfg.Schedule.DefaultLessonMinutes)
	assert.Equal(t, 60, cfg.Schedule.DefaultPostponedMinutes)
	assert.Equal(t, cfg.JWT.Secret, cfg.Feed.Secret)
	assert.Equal(t, 720*time.Hour, cfg.Feed.LinkTTL)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxIdleTime)
	assert.Equal(t, "tutoring-schedule-api", cfg.Database.AppName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("ENABLE_CACHE", "false")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")
	t.Setenv("SCHEDULE_LOOKAHEAD_WEEKS", "0")
	t.Setenv("SCHEDULE_MIN_SLOT_MINUTES", "30")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, time.UTC, cfg.Schedule.Location)
	assert.Equal(t, 4, cfg.Schedule.LookaheadWeeks)
	assert.Equal(t, 30, cfg.Schedule.MinSlotMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("SCHEDULE_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars/Olympus_Mons")
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
