package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (admin sessions)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin
	AdminToken string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
	LogLevel    string

	// Portal
	Timezone           string
	MaxAttachmentBytes int64
	LogRetentionDays   int

	// Dashboard cache (disabled when RedisURL is empty)
	RedisURL          string
	DashboardCacheTTL time.Duration

	// Attachment storage
	FTPHost     string
	FTPPort     string
	FTPUser     string
	FTPPassword string
	FTPBaseURL  string

	// Local attachment storage, used when FTPHost is empty
	UploadDir     string
	UploadBaseURL string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "denuncias_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Timezone:           getEnv("TIMEZONE", "America/Sao_Paulo"),
		MaxAttachmentBytes: parseInt64(getEnv("MAX_ATTACHMENT_BYTES", "2097152"), 2<<20),
		LogRetentionDays:   int(parseInt64(getEnv("LOG_RETENTION_DAYS", "30"), 30)),

		RedisURL:          getEnv("REDIS_URL", ""),
		DashboardCacheTTL: parseDuration(getEnv("DASHBOARD_CACHE_TTL", "60s"), time.Minute),

		FTPHost:     getEnv("FTP_HOST", ""),
		FTPPort:     getEnv("FTP_PORT", "21"),
		FTPUser:     getEnv("FTP_USER", ""),
		FTPPassword: getEnv("FTP_PASSWORD", ""),
		FTPBaseURL:  getEnv("FTP_BASE_URL", ""),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", "/uploads"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location returns the portal time zone, used for reply marker dates and
// dashboard bucketing. Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
