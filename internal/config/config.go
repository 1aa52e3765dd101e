package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-feeding-dashboard/internal/pkg/validate"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageDynamo = "dynamo"
	StorageRedis  = "redis"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ListenAddr string `validate:"required"`

	BackendURL     string        `validate:"required,url"`
	BackendTimeout time.Duration `validate:"gt=0"`

	NotificationPollInterval time.Duration `validate:"gt=0"`

	StorageDriver string `validate:"oneof=file memory dynamo redis"`
	StoragePath   string // file driver only
	InstanceID    string // partition key for shared drivers; generated when empty

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string // CORS allowed origins
	LoginRateLimit float64
	LoginBurst     int

	// Dev backend only.
	DevBackendAddr    string
	JWTPrivateKeyPath string // empty generates an ephemeral key pair
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Sessions string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		ListenAddr: getEnv("AGENT_ADDR", "127.0.0.1:3000"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8080"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),

		NotificationPollInterval: getEnvDuration("NOTIFICATION_POLL_INTERVAL", 30*time.Second),

		StorageDriver: getEnv("STORAGE_DRIVER", StorageFile),
		StoragePath:   getEnv("STORAGE_PATH", "./session.json"),
		InstanceID:    getEnv("INSTANCE_ID", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Sessions: getEnv("DYNAMO_TABLE_SESSIONS", "dashboard_sessions"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		LoginRateLimit: getEnvFloat("LOGIN_RATE_LIMIT", 1),
		LoginBurst:     getEnvInt("LOGIN_BURST", 5),

		DevBackendAddr:    getEnv("DEV_BACKEND_ADDR", "127.0.0.1:8080"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 24*time.Hour),
	}
}

// Validate checks the loaded values before any component is built.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("30s") or, under KEY_SECONDS,
// a whole number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
