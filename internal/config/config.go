package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionSecret string
	SessionExpiry time.Duration

	// Accounts
	AdminPassword string

	// Authorization
	StrictOwnership bool // enforce owner match on note/image deletion

	// Notes
	NoteMaxLen int // 0 = unlimited

	// Uploads
	StrictUploads  bool  // require a real .jpg/.jpeg extension
	MaxUploadBytes int64

	// Image pool (local directory or S3-compatible bucket)
	StorageDriver string // "local" or "s3"
	PoolPath      string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, R2, etc.)

	// URL-fetch relay
	FetchTimeout time.Duration

	// Honor X-Forwarded-For / X-Real-IP. Only enable behind a proxy
	// that overwrites them.
	TrustProxyHeaders bool

	// Deserialization sink. Leave disabled unless you know exactly why
	// you need it.
	SerialSinkEnabled bool

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Notedrop"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/notedrop.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Sessions
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionExpiry: envDuration("SESSION_EXPIRY", 24*time.Hour),

		// Accounts
		AdminPassword: envRequired("ADMIN_PASSWORD"),

		// Authorization
		StrictOwnership: envBool("STRICT_OWNERSHIP", true),

		// Notes
		NoteMaxLen: envInt("NOTE_MAX_LEN", 0),

		// Uploads
		StrictUploads:  envBool("STRICT_UPLOADS", false),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 16<<20),

		// Image pool
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		PoolPath:      envString("POOL_PATH", "./data/image_pool"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		// URL-fetch relay
		FetchTimeout: envDuration("FETCH_TIMEOUT", 10*time.Second),

		// Proxy headers
		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),

		// Deserialization sink
		SerialSinkEnabled: envBool("SERIAL_SINK_ENABLED", false),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	return cfg
}

// validateS3 ensures the S3 pool backend has the settings it needs.
func validateS3(cfg *Config) {
	if cfg.S3Region == "" || cfg.S3Bucket == "" {
		slog.Error("STORAGE_DRIVER=s3 requires S3_REGION and S3_BUCKET",
			"hint", "set STORAGE_DRIVER=local to use an on-disk image pool")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded, safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,

		StrictOwnership:   c.StrictOwnership,
		StrictUploads:     c.StrictUploads,
		SerialSinkEnabled: c.SerialSinkEnabled,
	}
}
