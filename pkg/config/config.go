package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Schedule ScheduleConfig
	Feed     FeedConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	// ConnMaxLifetime and ConnMaxIdleTime bound pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AppName         string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs memoization of resolved schedules and free slots.
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	FlushCron string
}

// FeedConfig signs calendar subscription links. The secret falls back to the
// JWT secret.
type FeedConfig struct {
	Secret  string
	LinkTTL time.Duration
}

// ExportConfig points PDF exports at a TrueType font able to draw Arabic.
type ExportConfig struct {
	PDFFontPath string
}

// ScheduleConfig holds the tunables of the availability engine.
type ScheduleConfig struct {
	Timezone                string
	Location                *time.Location
	LookaheadWeeks          int
	MinSlotMinutes          int
	DefaultLessonMinutes    int
	DefaultPostponedMinutes int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
		ConnMaxIdleTime: parseDuration(v.GetString("DB_CONN_MAX_IDLE_TIME"), 30*time.Minute),
		AppName:         v.GetString("DB_APP_NAME"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_CACHE"),
		TTL:       parseDuration(v.GetString("CACHE_TTL"), time.Hour),
		FlushCron: v.GetString("CACHE_FLUSH_CRON"),
	}

	cfg.Feed = FeedConfig{
		Secret:  v.GetString("FEED_SIGNING_SECRET"),
		LinkTTL: parseDuration(v.GetString("FEED_LINK_TTL"), 30*24*time.Hour),
	}
	if cfg.Feed.Secret == "" {
		cfg.Feed.Secret = cfg.JWT.Secret
	}

	cfg.Export = ExportConfig{PDFFontPath: v.GetString("EXPORT_PDF_FONT")}

	schedule, err := loadSchedule(v)
	if err != nil {
		return nil, err
	}
	cfg.Schedule = schedule

	return cfg, nil
}

func loadSchedule(v *viper.Viper) (ScheduleConfig, error) {
	tz := strings.TrimSpace(v.GetString("SCHEDULE_TIMEZONE"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return ScheduleConfig{}, fmt.Errorf("load schedule timezone %q: %w", tz, err)
	}
	return ScheduleConfig{
		Timezone:                tz,
		Location:                loc,
		LookaheadWeeks:          positiveOr(v.GetInt("SCHEDULE_LOOKAHEAD_WEEKS"), 4),
		MinSlotMinutes:          positiveOr(v.GetInt("SCHEDULE_MIN_SLOT_MINUTES"), 15),
		DefaultLessonMinutes:    positiveOr(v.GetInt("SCHEDULE_DEFAULT_LESSON_MINUTES"), 45),
		DefaultPostponedMinutes: positiveOr(v.GetInt("SCHEDULE_DEFAULT_POSTPONED_MINUTES"), 60),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tutoring_schedule")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_APP_NAME", "tutoring-schedule-api")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("CACHE_FLUSH_CRON", "@daily")

	v.SetDefault("FEED_SIGNING_SECRET", "")
	v.SetDefault("FEED_LINK_TTL", "720h")

	v.SetDefault("EXPORT_PDF_FONT", "")

	v.SetDefault("SCHEDULE_TIMEZONE", "Africa/Cairo")
	v.SetDefault("SCHEDULE_LOOKAHEAD_WEEKS", 4)
	v.SetDefault("SCHEDULE_MIN_SLOT_MINUTES", 15)
	v.SetDefault("SCHEDULE_DEFAULT_LESSON_MINUTES", 45)
	v.SetDefault("SCHEDULE_DEFAULT_POSTPONED_MINUTES", 60)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
