package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, populated from environment
// variables with sensible defaults for local development. The two API keys
// have no defaults; their owning clients refuse to start without them.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins string

	DatabaseURL string
	RedisURL    string

	SupadataAPIKey             string
	SupadataBaseURL            string
	SupadataMetadataEndpoint   string
	SupadataTranscriptEndpoint string

	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string
	GeminiTemp      float64
	GeminiMaxTokens int

	RequestTimeout time.Duration // per upstream HTTP call
	CheckTimeout   time.Duration // whole check pipeline deadline

	MaxRetries   int
	RetryDelay   time.Duration
	RetryBackoff float64

	CacheTTL       time.Duration // fingerprint cache
	CacheMaxSize   int
	ResultCacheTTL time.Duration // Redis result cache
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")

	v.SetDefault("SUPADATA_API_KEY", "")
	v.SetDefault("SUPADATA_BASE_URL", "https://api.supadata.ai/v1")
	v.SetDefault("SUPADATA_METADATA_ENDPOINT", "/metadata")
	v.SetDefault("SUPADATA_TRANSCRIPT_ENDPOINT", "/transcript")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_TEMPERATURE", 0.2)
	v.SetDefault("GEMINI_MAX_OUTPUT_TOKENS", 4096)

	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("CHECK_TIMEOUT", "90s")

	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("RETRY_DELAY", "1s")
	v.SetDefault("RETRY_BACKOFF", 2.0)

	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("CACHE_MAX_SIZE", 100)
	v.SetDefault("RESULT_CACHE_TTL", "15m")

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		RedisURL:    v.GetString("REDIS_URL"),

		SupadataAPIKey:             v.GetString("SUPADATA_API_KEY"),
		SupadataBaseURL:            v.GetString("SUPADATA_BASE_URL"),
		SupadataMetadataEndpoint:   v.GetString("SUPADATA_METADATA_ENDPOINT"),
		SupadataTranscriptEndpoint: v.GetString("SUPADATA_TRANSCRIPT_ENDPOINT"),

		GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
		GeminiBaseURL:   v.GetString("GEMINI_BASE_URL"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		GeminiTemp:      v.GetFloat64("GEMINI_TEMPERATURE"),
		GeminiMaxTokens: v.GetInt("GEMINI_MAX_OUTPUT_TOKENS"),

		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		CheckTimeout:   v.GetDuration("CHECK_TIMEOUT"),

		MaxRetries:   v.GetInt("MAX_RETRIES"),
		RetryDelay:   v.GetDuration("RETRY_DELAY"),
		RetryBackoff: v.GetFloat64("RETRY_BACKOFF"),

		CacheTTL:       v.GetDuration("CACHE_TTL"),
		CacheMaxSize:   v.GetInt("CACHE_MAX_SIZE"),
		ResultCacheTTL: v.GetDuration("RESULT_CACHE_TTL"),
	}
}
