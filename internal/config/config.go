package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the portal
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// News backend
	APIBaseURL        string        `json:"api_base_url"`
	MediaBaseURL      string        `json:"media_base_url"`
	BackendTimeout    time.Duration `json:"backend_timeout"`
	BackendRetryCount int           `json:"backend_retry_count"`
	BackendRetryWait  time.Duration `json:"backend_retry_wait"`
	LiveVideoLimit    int           `json:"live_video_limit"`
	FilterPageSize    int           `json:"filter_page_size"`

	// Sessions
	SessionBackend    string        `json:"session_backend"`
	RedisURL          string        `json:"redis_url"`
	RedisPrefix       string        `json:"redis_prefix"`
	SessionTTL        time.Duration `json:"session_ttl"`
	SessionCookie     string        `json:"session_cookie"`
	CookieSecure      bool          `json:"cookie_secure"`
	ControllerIdleTTL time.Duration `json:"controller_idle_ttl"`

	// Site assets
	AssetBackend string `json:"asset_backend"`
	AssetPath    string `json:"asset_path"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"r2_access_key"`
	R2SecretKey string `json:"r2_secret_key"`
	R2Bucket    string `json:"r2_bucket"`
	R2AccountID string `json:"r2_account_id"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`
}

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendS3     = "s3"
)

// Load reads configuration from the environment (and .env) and validates it
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	apiBase := getEnv("API_BASE_URL", "http://localhost:8080/api")

	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		APIBaseURL:        apiBase,
		MediaBaseURL:      getEnv("MEDIA_BASE_URL", DeriveMediaBase(apiBase)),
		BackendTimeout:    getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
		BackendRetryCount: getEnvAsInt("BACKEND_RETRY_COUNT", 2),
		BackendRetryWait:  getEnvAsDuration("BACKEND_RETRY_WAIT", 500*time.Millisecond),
		LiveVideoLimit:    getEnvAsInt("LIVE_VIDEO_LIMIT", 10),
		FilterPageSize:    getEnvAsInt("FILTER_PAGE_SIZE", 20),

		SessionBackend:    getEnv("SESSION_BACKEND", BackendRedis),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:       getEnv("REDIS_PREFIX", "news-panel:"),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 720*time.Hour), // 30 days
		SessionCookie:     getEnv("SESSION_COOKIE", "np_session"),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),
		ControllerIdleTTL: getEnvAsDuration("CONTROLLER_IDLE_TTL", 30*time.Minute),

		AssetBackend: getEnv("ASSET_BACKEND", BackendLocal),
		AssetPath:    getEnv("ASSET_PATH", "./web/static"),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "news-panel-assets"),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DeriveMediaBase strips the first "/api" from the backend base URL, which is
// where the backend serves uploaded media from.
func DeriveMediaBase(apiBase string) string {
	return strings.TrimSuffix(strings.Replace(apiBase, "/api", "", 1), "/")
}

// Validate rejects configuration the portal cannot run with
func (c *Config) Validate() error {
	if err := validateBaseURL("API_BASE_URL", c.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("MEDIA_BASE_URL", c.MediaBaseURL); err != nil {
		return err
	}
	if c.LiveVideoLimit <= 0 {
		return fmt.Errorf("LIVE_VIDEO_LIMIT must be positive, got %d", c.LiveVideoLimit)
	}
	if c.FilterPageSize <= 0 {
		return fmt.Errorf("FILTER_PAGE_SIZE must be positive, got %d", c.FilterPageSize)
	}
	if c.BackendRetryCount < 0 {
		return fmt.Errorf("BACKEND_RETRY_COUNT must not be negative, got %d", c.BackendRetryCount)
	}
	switch c.SessionBackend {
	case BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.AssetBackend {
	case BackendLocal:
	case BackendS3:
		if c.R2Endpoint == "" && c.R2AccountID == "" {
			return fmt.Errorf("ASSET_BACKEND=s3 requires R2_ENDPOINT or CLOUDFLARE_ACCOUNT_ID")
		}
	default:
		return fmt.Errorf("unknown ASSET_BACKEND %q", c.AssetBackend)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	return nil
}

// R2URL returns the S3 endpoint of the configured R2 account.
func (c *Config) R2URL() string {
	if c.R2Endpoint != "" {
		return c.R2Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2AccountID)
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", name, raw)
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
