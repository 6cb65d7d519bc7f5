package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Queue    QueueConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	CORSOrigin  string
	Debug       bool
}

func (a AppConfig) IsDevelopment() bool {
	return strings.EqualFold(a.Environment, "development")
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type StoreConfig struct {
	Driver  string
	Timeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type SessionConfig struct {
	IdleTimeout  time.Duration
	CookieSecure bool
}

type QueueConfig struct {
	Shards int
	Buffer int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the process environment. A .env file in the
// working directory, when present, is applied first without overriding
// variables that are already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	flag := func(key string) bool {
		b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
		return b
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "cinda"),
		Environment: opt("APP_ENV", "production"),
		HTTPPort:    opt("HTTP_PORT", "5000"),
		CORSOrigin:  opt("CORS_ORIGIN", "http://localhost:3000"),
		Debug:       flag("APP_DEBUG"),
	}

	cfg.Store = StoreConfig{
		Driver:  strings.ToLower(opt("STORE_DRIVER", StoreDriverMongo)),
		Timeout: dur("STORE_TIMEOUT", 5*time.Second),
	}

	switch cfg.Store.Driver {
	case StoreDriverMongo:
		cfg.Mongo = MongoConfig{
			URI:      req("MONGODB_URI"),
			Database: opt("MONGODB_DATABASE", "cinda"),
		}
	case StoreDriverPostgres:
		cfg.Database = DatabaseConfig{
			DBHost:     req("DB_HOST"),
			DBPort:     opt("DB_PORT", "5432"),
			DBName:     req("DB_NAME"),
			DBUser:     req("DB_USER"),
			DBPassword: opt("DB_PASSWORD", ""),
			DBSSLMode:  opt("DB_SSL_MODE", "disable"),
		}
	case StoreDriverMemory:
	default:
		invalid = append(invalid, "STORE_DRIVER")
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR", ""),
		Password: opt("REDIS_PASSWORD", ""),
		DB:       num("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET", ""),
		AccessExpiresIn:  dur("JWT_EXPIRES_IN", 7*24*time.Hour),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 30*24*time.Hour),
	}
	if cfg.JWT.RefreshSecret == "" {
		cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret + ".refresh"
	}

	cfg.Session = SessionConfig{
		IdleTimeout:  dur("SESSION_IDLE_TIMEOUT", 7*24*time.Hour),
		CookieSecure: cfg.App.IsProduction(),
	}

	cfg.Queue = QueueConfig{
		Shards: num("QUEUE_SHARDS", 8),
		Buffer: num("QUEUE_BUFFER", 64),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
