package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// AppConfig holds all configuration for the service, loaded from the
// environment.
type AppConfig struct {
	Port     string
	LogLevel string

	StoreDriver string
	SQLitePath  string
	Database    DBConfig

	CacheDriver string
	RedisAddr   string
	CacheTTL    time.Duration

	RateLimitPerMinute int
	RateLimitBurst     int

	COATemplatesPath string
	OpenAIAPIKey     string
}

// DBConfig holds Postgres connection settings. URL wins over the
// individual fields when set.
type DBConfig struct {
	URL      string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// Load reads a .env file when present and builds the configuration from
// environment variables.
func Load() *AppConfig {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}
	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("No .env file found, relying on OS environment variables")
		} else {
			log.Printf("Warning: error loading .env file: %v", errEnv)
		}
	}

	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		SQLitePath:  getEnv("SQLITE_PATH", "./proforma.db"),
		Database: DBConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", DefaultDBPort),
			Name:     getEnv("DB_NAME", "proforma"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", DefaultDBSSLMode),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", DefaultMaxConns),
			MinConns: getEnvAsInt("DB_MIN_CONNS", DefaultMinConns),
		},

		CacheDriver: strings.ToLower(getEnv("CACHE_DRIVER", CacheMemory)),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", DefaultCacheTTL),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", DefaultRateLimitBurst),

		COATemplatesPath: getEnv("COA_TEMPLATES_PATH", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
	}
}

// Validate checks driver names and limits.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.CacheDriver {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	if c.StoreDriver == StoreSQLite && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required for the sqlite store")
	}
	if c.StoreDriver == StorePostgres && c.Database.URL == "" && c.Database.Host == "" {
		return errors.New("DATABASE_URL or DB_HOST is required for the postgres store")
	}
	if c.CacheDriver == CacheRedis && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required for the redis cache")
	}
	if c.CacheDriver != CacheNone && c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive when a cache is enabled")
	}
	if c.RateLimitPerMinute < 1 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be >= 1")
	}
	if c.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_BURST must be >= 1")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return errors.New("DB_MIN_CONNS must be <= DB_MAX_CONNS")
	}
	return nil
}

// ConnString builds a postgres connection string from the config.
func (d DBConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else {
		u.User = url.User(d.User)
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback)
	return fallback
}
