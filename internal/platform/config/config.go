// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the typed view of every environment setting the binaries read.
type Config struct {
	ServerAddr   string
	AllowOrigins []string

	LogLevel  string
	LogFormat string

	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig

	// RefundRerunPolicy is "recompute" (default) or "fail".
	RefundRerunPolicy string
	// RunLockTTL bounds how long a crashed run can hold the per-company lock.
	RunLockTTL time.Duration
	// SettingsCacheTTL bounds how long settings stay cached in Redis.
	SettingsCacheTTL time.Duration
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Driver        string // "sqlite" or "postgres"
	Path          string // sqlite file path
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	RunMigrations bool
	ConnectWithin time.Duration
}

// RedisConfig holds optional Redis settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// AuthConfig holds operator authentication settings.
type AuthConfig struct {
	Enabled          bool
	JWTSecret        string
	JWTExpiration    time.Duration
	OperatorUsername string
	// OperatorPasswordHash is a bcrypt hash of the operator password.
	OperatorPasswordHash string
	// LoginLimit caps login attempts per client within LoginWindow.
	LoginLimit  int
	LoginWindow time.Duration
}

// LoadDotEnv reads .env if present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debug(".env not found; using system environment variables")
	}
}

// Load builds a Config from environment variables with defaults applied.
func Load() Config {
	return Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		AllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DB: DBConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:          getEnv("DB_PATH", "./db/ipo.sqlite"),
			Host:          os.Getenv("DB_HOST"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          os.Getenv("DB_USER"),
			Password:      os.Getenv("DB_PASSWORD"),
			Name:          os.Getenv("DB_NAME"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			RunMigrations: getBool("RUN_MIGRATIONS", true),
			ConnectWithin: getDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
		},

		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},

		Auth: AuthConfig{
			Enabled:              getBool("AUTH_ENABLED", false),
			JWTSecret:            os.Getenv("JWT_SECRET"),
			JWTExpiration:        getDuration("JWT_EXPIRATION", 12*time.Hour),
			OperatorUsername:     getEnv("OPERATOR_USERNAME", "admin"),
			OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
			LoginLimit:           getInt("LOGIN_RATE_LIMIT", 10),
			LoginWindow:          getDuration("LOGIN_RATE_WINDOW", time.Minute),
		},

		RefundRerunPolicy: strings.ToLower(getEnv("REFUND_RERUN_POLICY", "recompute")),
		RunLockTTL:        getDuration("RUN_LOCK_TTL", 30*time.Second),
		SettingsCacheTTL:  getDuration("SETTINGS_CACHE_TTL", time.Minute),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("invalid %s value %q, using default %v", key, v, def)
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.Warnf("invalid %s value %q, using default %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.Warnf("invalid %s value %q, using default %v", key, v, def)
		return def
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
