package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Remote   RemoteConfig
	Sync     SyncConfig
	Redis    RedisConfig
	S3       S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	// Mode selects which half of the system this process runs:
	// "local" (shop desktop, SQLite, sync engine enabled) or
	// "central" (authoritative server exposing the sync API).
	Mode string
	// APIKey is the shared secret checked on the central sync API.
	APIKey string
}

type DatabaseConfig struct {
	Driver string // sqlite | postgres

	// sqlite
	Path string

	// postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RemoteConfig describes the central server a local instance syncs against.
type RemoteConfig struct {
	BaseURL      string
	APIKey       string
	DataTimeout  time.Duration
	ProbeTimeout time.Duration
}

type SyncConfig struct {
	AutoSync   bool
	CronSpec   string
	MarkerPath string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type S3Config struct {
	Enabled         bool
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			Mode:        getEnv("SERVER_MODE", "local"),
			APIKey:      getEnv("SYNC_API_KEY", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "shopsync.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "shopsync"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m")),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Remote: RemoteConfig{
			BaseURL:      getEnv("REMOTE_BASE_URL", "http://localhost:9090"),
			APIKey:       getEnv("REMOTE_API_KEY", ""),
			DataTimeout:  parseDuration(getEnv("REMOTE_DATA_TIMEOUT", "30s")),
			ProbeTimeout: parseDuration(getEnv("REMOTE_PROBE_TIMEOUT", "5s")),
		},
		Sync: SyncConfig{
			AutoSync:   parseBool(getEnv("SYNC_AUTO", "true")),
			CronSpec:   getEnv("SYNC_CRON", "*/30 * * * *"),
			MarkerPath: getEnv("SYNC_MARKER_PATH", "last_sync.txt"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0")),
		},
		S3: S3Config{
			Enabled:         parseBool(getEnv("S3_ENABLED", "false")),
			Region:          getEnv("AWS_REGION", "af-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "shopsync-exports"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
	}

	return config, nil
}

// DSN returns the postgres connection string. Only meaningful when
// Driver is "postgres".
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.DBName + " sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 15m", s)
		return 15 * time.Minute
	}
	return duration
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
