package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	ScriptureAPIURL string
	PrayerAPIURL    string

	Location     *time.Location
	RamadanStart time.Time

	PageSyncDebounce time.Duration
	PageSyncSuppress time.Duration

	RateLimit int

	LogDebug bool
	LogFile  string
}

// Load reads the environment, after an optional .env file in the working
// directory, and requires the token secret.
func Load() (*Config, error) {
	cfg, err := LoadStore()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

// LoadStore is Load for offline tools that never issue tokens.
func LoadStore() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid APP_TIMEZONE: %w", err)
	}

	ramadanStart, err := time.ParseInLocation("2006-01-02", getEnv("RAMADAN_START", "2026-02-19"), loc)
	if err != nil {
		return nil, fmt.Errorf("config: invalid RAMADAN_START: %w", err)
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "khatma_user"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "khatma_db"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", "khatma-sync-engine"),
		TokenTTL:  getDuration("TOKEN_TTL", 72*time.Hour),

		ScriptureAPIURL: getEnv("SCRIPTURE_API_URL", "https://api.alquran.cloud/v1"),
		PrayerAPIURL:    getEnv("PRAYER_API_URL", "https://api.aladhan.com/v1"),

		Location:     loc,
		RamadanStart: ramadanStart,

		PageSyncDebounce: getDuration("PAGE_SYNC_DEBOUNCE", 600*time.Millisecond),
		PageSyncSuppress: getDuration("PAGE_SYNC_SUPPRESS", 1500*time.Millisecond),

		RateLimit: getInt("RATE_LIMIT", 100),

		LogDebug: getBool("LOG_DEBUG", false),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
