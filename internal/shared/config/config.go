package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for persisted analyses.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds application configuration.
type Config struct {
	Env               string
	Port              string
	CORSAllowOrigin   []string
	Store             string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBPingTimeout     time.Duration
	RedisURL          string
	EventsChannel     string
	KeywordLimit      int
	RetentionDays     int
	RetentionSchedule string
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxUploadBytes    int64
	ShutdownTimeout   time.Duration
}

// Retention returns how long stored analyses are kept.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; existing
	// variables win.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	store := normalizeStore(getEnv("STORE", ""), dbURL)

	if env == "production" && store == StoreMemory {
		log.Printf("STORE=memory in production; analyses will not survive restarts")
	}

	return Config{
		Env:               env,
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Store:             store,
		DatabaseURL:       dbURL,
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
		DBPingTimeout:     getDuration("DB_PING_TIMEOUT", 5*time.Second),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		EventsChannel:     strings.TrimSpace(os.Getenv("EVENTS_CHANNEL")),
		KeywordLimit:      getInt("KEYWORD_LIMIT", 20),
		RetentionDays:     getInt("RETENTION_DAYS", 30),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", "@every 1h"),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 10),
		MaxUploadBytes:    int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: skipping %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		log.Printf("config: invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

// normalizeStore picks postgres when only DATABASE_URL is set.
func normalizeStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return StorePostgres
	case "redis":
		return StoreRedis
	case "memory", "mem":
		return StoreMemory
	}
	if dbURL != "" {
		return StorePostgres
	}
	return StoreMemory
}
