package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultSecret = "secret_key_change_me"

// Config is built once at startup and handed to every component that needs
// it; nothing below main reads the process environment.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	LogLevel    string

	// SessionSecret signs bearer tokens.
	SessionSecret string
	TokenTTL      time.Duration

	RedisURL string
	CacheTTL time.Duration

	// TrustScoreRefreshInterval bounds how often a politician's trust score
	// is recomputed on read. Zero recomputes on every read.
	TrustScoreRefreshInterval time.Duration

	BillFeedURL       string
	BillFeedSchedule  string
	BillFetchFullText bool

	SeedOnStart bool

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether every SMTP setting is present.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != "" && s.From != ""
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading env vars from system")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) Config {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Env:         get("APP_ENV", "development"),
		Port:        get("PORT", "8080"),
		DatabaseURL: get("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=civicos port=5432 sslmode=disable"),
		LogLevel:    get("LOG_LEVEL", "info"),

		SessionSecret: get("SESSION_SECRET", defaultSecret),
		TokenTTL:      duration(get("TOKEN_TTL", ""), 7*24*time.Hour),

		RedisURL: get("REDIS_URL", ""),
		CacheTTL: duration(get("CACHE_TTL", ""), time.Minute),

		TrustScoreRefreshInterval: duration(get("TRUST_SCORE_REFRESH_INTERVAL", ""), 5*time.Minute),

		BillFeedURL:       get("BILL_FEED_URL", ""),
		BillFeedSchedule:  get("BILL_FEED_SCHEDULE", "@every 30m"),
		BillFetchFullText: boolean(get("BILL_FETCH_FULLTEXT", ""), false),

		SeedOnStart: boolean(get("SEED_ON_START", ""), true),

		SMTP: SMTPConfig{
			Host:     get("SMTP_HOST", ""),
			Port:     get("SMTP_PORT", ""),
			Username: get("SMTP_USER", ""),
			Password: get("SMTP_PASS", ""),
			From:     get("SMTP_FROM", ""),
		},
	}

	if cfg.SessionSecret == defaultSecret && cfg.IsProduction() {
		log.Warn().Msg("SESSION_SECRET is not set, using the development default")
	}
	return cfg
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("value", raw).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func boolean(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
