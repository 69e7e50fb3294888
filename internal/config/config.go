package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Store     string // sqlite | memory | redis
	DBPath    string
	RedisURL  string
	LogMode   string
	LogLevel  string
	Location  *time.Location
	HTTPAddr  string
	JWTSecret string
	JWTTTL    time.Duration
	BotToken  string
	// Telegram initData older than this is rejected. Zero disables the check.
	InitDataMaxAge time.Duration
	SweepInterval  time.Duration
	AllowLocalAuth bool

	UserID     string
	Username   string
	AvatarURL  string
	DemoRivals bool
}

// Load reads .env (when present) and then the TQ_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Store:     strings.ToLower(getEnv("TQ_STORE", "sqlite")),
		DBPath:    getEnv("TQ_DB_PATH", ""),
		RedisURL:  getEnv("TQ_REDIS_URL", "redis://localhost:6379/0"),
		LogMode:   getEnv("TQ_LOG_MODE", "dev"),
		LogLevel:  getEnv("TQ_LOG_LEVEL", "warn"),
		HTTPAddr:  getEnv("TQ_HTTP_ADDR", ":5200"),
		JWTSecret: getEnv("TQ_JWT_SECRET", ""),
		BotToken:  getEnv("TQ_TELEGRAM_BOT_TOKEN", ""),
		UserID:    getEnv("TQ_USER_ID", "local"),
		Username:  getEnv("TQ_USERNAME", defaultUsername()),
		AvatarURL: getEnv("TQ_AVATAR", ""),
	}

	switch cfg.Store {
	case "sqlite", "memory", "redis":
	default:
		return nil, fmt.Errorf("TQ_STORE: unknown store %q", cfg.Store)
	}

	tz := getEnv("TQ_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TQ_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.JWTTTL, err = getDuration("TQ_JWT_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.InitDataMaxAge, err = getDuration("TQ_INIT_DATA_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("TQ_SWEEP_INTERVAL", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("TQ_SWEEP_INTERVAL: must be positive")
	}
	if cfg.DemoRivals, err = getBool("TQ_DEMO_RIVALS", false); err != nil {
		return nil, err
	}
	if cfg.AllowLocalAuth, err = getBool("TQ_ALLOW_LOCAL_AUTH", true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func defaultUsername() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
