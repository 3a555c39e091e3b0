package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables (optionally loaded from .env by main).
type Config struct {
	App     AppConfig
	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Admin   AdminConfig
	MPesa   MPesaConfig
	Email   EmailConfig
	MinIO   MinIOConfig
	Upload  UploadConfig
	Jobs    JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// Supported store backends
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// StoreConfig selects the persistence backend once for the process lifetime
type StoreConfig struct {
	Backend string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// AdminConfig lists usernames treated as administrators even when the
// account's is_admin flag is false (accounts created before the flag existed).
type AdminConfig struct {
	Usernames []string
}

// =====================================================
// MPESA CONFIGURATION
// =====================================================

type MPesaConfig struct {
	BaseURL           string // https://sandbox.safaricom.co.ke
	ConsumerKey       string
	ConsumerSecret    string
	Passkey           string
	Shortcode         string
	CallbackURL       string
	CallbackToken     string // optional shared secret expected on the callback URL
	TransactionDesc   string
	FeatureDays       int
	FailOnCallbackErr bool // move pending -> failed on a non-zero ResultCode
}

type EmailConfig struct {
	SMTPHost  string
	SMTPPort  string
	Username  string
	Password  string
	From      string
	Operators []string // recipients of submission notifications
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type UploadConfig struct {
	MaxBytes  int64
	MaxPixels int
}

type JobConfig struct {
	FeatureExpiryCron string
	Concurrency       int
	HealthPort        string // worker liveness endpoint
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "CelebHub API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Store: StoreConfig{
			Backend: resolveBackend(),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "celebhub"),
			Timeout:  getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "dev-secret-change-this"),
			TTL:          getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE", "session"),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Admin: AdminConfig{
			Usernames: ParseList(getEnv("ADMIN_USERNAMES", "")),
		},
		MPesa: MPesaConfig{
			BaseURL:           getEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke"),
			ConsumerKey:       getEnv("MPESA_CONSUMER_KEY", ""),
			ConsumerSecret:    getEnv("MPESA_CONSUMER_SECRET", ""),
			Passkey:           getEnv("MPESA_PASSKEY", ""),
			Shortcode:         getEnv("MPESA_SHORTCODE", "174379"),
			CallbackURL:       getEnv("MPESA_CALLBACK_URL", "http://localhost:8080/api/v1/mpesa/callback"),
			CallbackToken:     getEnv("MPESA_CALLBACK_TOKEN", ""),
			TransactionDesc:   getEnv("MPESA_TRANSACTION_DESC", "Featured Listing Payment"),
			FeatureDays:       getEnvInt("FEATURE_DAYS", 30),
			FailOnCallbackErr: getEnvBool("MPESA_FAIL_ON_CALLBACK_ERROR", false),
		},
		Email: EmailConfig{
			SMTPHost:  getEnv("SMTP_HOST", "localhost"),
			SMTPPort:  getEnv("SMTP_PORT", "1025"),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			From:      getEnv("MAIL_DEFAULT_SENDER", "noreply@celebhub.dev"),
			Operators: ParseList(getEnv("OPERATOR_EMAILS", "")),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "celebhub"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			MaxBytes:  int64(getEnvInt("UPLOAD_MAX_BYTES", 4*1024*1024)),
			MaxPixels: getEnvInt("UPLOAD_MAX_PIXELS", 800),
		},
		Jobs: JobConfig{
			FeatureExpiryCron: getEnv("JOB_FEATURE_EXPIRY_CRON", "*/15 * * * *"),
			Concurrency:       getEnvInt("WORKER_CONCURRENCY", 10),
			HealthPort:        getEnv("WORKER_HEALTH_PORT", "9999"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistent or unsafe values
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendMemory:
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI must be set when STORE_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.MPesa.FeatureDays <= 0 {
		return fmt.Errorf("FEATURE_DAYS must be positive")
	}

	if c.App.Environment == "production" {
		if c.Session.Secret == "dev-secret-change-this" {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if c.Store.Backend == BackendMemory {
			return fmt.Errorf("memory store is not allowed in production")
		}
		if c.MPesa.ConsumerKey == "" {
			fmt.Println("WARNING: MPESA_CONSUMER_KEY not set - payments will not work")
		}
		if c.MPesa.CallbackToken == "" {
			fmt.Println("WARNING: MPESA_CALLBACK_TOKEN not set - payment callbacks are unauthenticated")
		}
	}

	return nil
}

// FeatureDuration is how long a paid feature lasts
func (c MPesaConfig) FeatureDuration() time.Duration {
	return time.Duration(c.FeatureDays) * 24 * time.Hour
}

// resolveBackend keeps the legacy behaviour: a MONGO_URI alone switches the
// app to MongoDB unless STORE_BACKEND says otherwise.
func resolveBackend() string {
	if b := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))); b != "" {
		return b
	}
	if os.Getenv("MONGO_URI") != "" {
		return BackendMongo
	}
	return BackendPostgres
}

// ParseList splits a comma separated value, trimming blanks.
// Entries keep their case.
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
