package config

import (
	"errors"
	"strings"
	"time"

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

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Ratings   RatingsConfig
	Scheduler SchedulerConfig
	Exports   ExportsConfig
	Cache     CacheConfig
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig points at the Schedule of Classes API.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RatingsConfig points at the professor rating/grade aggregation API.
type RatingsConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RefreshInterval time.Duration
	RefreshWorkers  int
}

// SchedulerConfig tunes the schedule generation engine.
type SchedulerConfig struct {
	DefaultMaxSchedules int
	MaxSchedulesCap     int
	CandidateCeiling    int
	ResultTTL           time.Duration
}

// ExportsConfig controls schedule export storage and signed downloads.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// CacheConfig governs read-through cache TTLs.
type CacheConfig struct {
	Enabled    bool
	SectionTTL time.Duration
	CourseTTL  time.Duration
	RatingTTL  time.Duration
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
		if !errors.As(err, &notFound) {
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
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		BaseURL: v.GetString("CATALOG_API_URL"),
		Timeout: parseDuration(v.GetString("CATALOG_TIMEOUT"), 10*time.Second),
	}

	cfg.Ratings = RatingsConfig{
		BaseURL:         v.GetString("RATINGS_API_URL"),
		Timeout:         parseDuration(v.GetString("RATINGS_TIMEOUT"), 10*time.Second),
		RefreshInterval: parseDuration(v.GetString("RATINGS_REFRESH_INTERVAL"), 24*time.Hour),
		RefreshWorkers:  v.GetInt("RATINGS_REFRESH_WORKERS"),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultMaxSchedules: v.GetInt("SCHEDULER_DEFAULT_MAX_SCHEDULES"),
		MaxSchedulesCap:     v.GetInt("SCHEDULER_MAX_SCHEDULES_CAP"),
		CandidateCeiling:    v.GetInt("SCHEDULER_CANDIDATE_CEILING"),
		ResultTTL:           parseDuration(v.GetString("SCHEDULER_RESULT_TTL"), 30*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		SectionTTL: parseDuration(v.GetString("CACHE_SECTION_TTL"), 15*time.Minute),
		CourseTTL:  parseDuration(v.GetString("CACHE_COURSE_TTL"), time.Hour),
		RatingTTL:  parseDuration(v.GetString("CACHE_RATING_TTL"), 6*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "terp_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_API_URL", "https://api.umd.io/v1")
	v.SetDefault("CATALOG_TIMEOUT", "10s")

	v.SetDefault("RATINGS_API_URL", "https://api.planetterp.com/v1")
	v.SetDefault("RATINGS_TIMEOUT", "10s")
	v.SetDefault("RATINGS_REFRESH_INTERVAL", "24h")
	v.SetDefault("RATINGS_REFRESH_WORKERS", 2)

	v.SetDefault("SCHEDULER_DEFAULT_MAX_SCHEDULES", 5)
	v.SetDefault("SCHEDULER_MAX_SCHEDULES_CAP", 20)
	v.SetDefault("SCHEDULER_CANDIDATE_CEILING", 250000)
	v.SetDefault("SCHEDULER_RESULT_TTL", "30m")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_SECTION_TTL", "15m")
	v.SetDefault("CACHE_COURSE_TTL", "1h")
	v.SetDefault("CACHE_RATING_TTL", "6h")
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
