package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	App         AppConfig
	SMTP        SMTPConfig
	Media       MediaConfig
	Predictor   PredictorConfig
	Reservation ReservationConfig
	Lock        LockConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds the settings shared with the identity service
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
	Issuer       string
}

// AppConfig holds public-facing settings
type AppConfig struct {
	PublicBaseURL string
}

// SMTPConfig holds outbound mail settings. An empty Host selects the log-only dispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP delivery is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// MediaConfig holds the blob bucket used for logos and covers
type MediaConfig struct {
	BucketURL     string
	PublicBaseURL string
	MaxUploadSize int64
}

// PredictorConfig holds the duration prediction service settings.
// An empty URL selects the fixed-duration fallback.
type PredictorConfig struct {
	URL          string
	Timeout      time.Duration
	FallbackSlot time.Duration
}

// ReservationConfig holds reservation policy settings
type ReservationConfig struct {
	Timezone       string
	EnforceOverlap bool
	ExpiryInterval time.Duration
}

// LockConfig holds per-business and per-table lease settings
type LockConfig struct {
	TTL  time.Duration
	Wait time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "slotzi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			Issuer:       getEnv("JWT_ISSUER", ""),
		},
		App: AppConfig{
			PublicBaseURL: strings.TrimRight(getEnv("APP_PUBLIC_URL", "http://localhost:8080"), "/"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "SlotZi <no-reply@slotzi.local>"),
		},
		Media: MediaConfig{
			BucketURL:     getEnv("MEDIA_BUCKET_URL", "mem://"),
			PublicBaseURL: strings.TrimRight(getEnv("MEDIA_PUBLIC_URL", "http://localhost:8080/media"), "/"),
			MaxUploadSize: int64(getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 5<<20)),
		},
		Predictor: PredictorConfig{
			URL:          getEnv("PREDICTOR_URL", ""),
			Timeout:      getEnvAsDuration("PREDICTOR_TIMEOUT", 5*time.Second),
			FallbackSlot: getEnvAsDuration("PREDICTOR_FALLBACK_DURATION", 90*time.Minute),
		},
		Reservation: ReservationConfig{
			Timezone:       getEnv("RESERVATION_TIMEZONE", "Asia/Colombo"),
			EnforceOverlap: getEnvAsBool("RESERVATION_ENFORCE_OVERLAP", true),
			ExpiryInterval: getEnvAsDuration("RESERVATION_EXPIRY_INTERVAL", 10*time.Minute),
		},
		Lock: LockConfig{
			TTL:  getEnvAsDuration("LOCK_TTL", 30*time.Second),
			Wait: getEnvAsDuration("LOCK_WAIT", 5*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
