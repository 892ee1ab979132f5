package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	AllowedOrigins    []string
	HFToken           string
	GenerateSpaceURL  string
	TransformSpaceURL string
	MaxBodyBytes      int64
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
	DatabaseURL       string
	StorageDir        string
	StorageBaseURL    string
	RelayBaseURL      string
}

// defaultOrigins lists the known front-end dev servers allowed through CORS.
var defaultOrigins = []string{
	"http://localhost:8080",
	"http://localhost:8082",
	"http://localhost:3000",
	"http://localhost:5173",
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The provider token is optional: the spaces are usable
// without credentials, a token only buys priority processing. DATABASE_URL is
// also optional; without it the gallery endpoints are disabled.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "3001"),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", defaultOrigins),
		HFToken:           os.Getenv("HF_TOKEN"),
		GenerateSpaceURL:  getEnv("GENERATE_SPACE_URL", "https://black-forest-labs-flux-1-schnell.hf.space"),
		TransformSpaceURL: getEnv("TRANSFORM_SPACE_URL", "https://instantx-instantstyle.hf.space"),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_MB", 50)) << 20,
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 60)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StorageDir:        getEnv("STORAGE_DIR", "./data"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:3001/static"),
		RelayBaseURL:      getEnv("RELAY_BASE_URL", "http://localhost:3001"),
	}

	return cfg, nil
}

// GalleryEnabled reports whether image persistence is configured.
func (c *Config) GalleryEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
