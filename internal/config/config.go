package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	// Qualification pipeline
	UseMemoryQueue    bool
	WorkerCount       int
	QualifyQueueURL   string
	QualifierProvider string // "rules" or "bedrock"
	BedrockModelID    string
	QualifyTimeout    time.Duration

	// Redis (duplicate-submission guard, featured-project cache)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	DedupeWindow  time.Duration
	CacheTTL      time.Duration

	// Admin sessions
	AdminJWTSecret  string
	AdminEmail      string
	AdminPassword   string
	AdminSessionTTL time.Duration

	// Outbound email
	EmailProvider     string // "sendgrid", "ses" or "" (disabled)
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesNotifyEmail  string

	// AWS (SQS queue, SES email, S3 archive, Bedrock qualifier)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	ArchiveBucket       string

	// Public API protection
	CORSAllowedOrigins []string
	IntakeRatePerSec   float64
	IntakeRateBurst    int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		UseMemoryQueue:    getEnvAsBool("USE_MEMORY_QUEUE", true),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 2),
		QualifyQueueURL:   getEnv("QUALIFY_QUEUE_URL", ""),
		QualifierProvider: strings.ToLower(strings.TrimSpace(getEnv("QUALIFIER_PROVIDER", "rules"))),
		BedrockModelID:    getEnv("BEDROCK_MODEL_ID", ""),
		QualifyTimeout:    getEnvAsDuration("QUALIFY_TIMEOUT", 30*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		DedupeWindow:  getEnvAsDuration("LEAD_DEDUPE_WINDOW", 2*time.Minute),
		CacheTTL:      getEnvAsDuration("PROJECT_CACHE_TTL", 5*time.Minute),

		AdminJWTSecret:  getEnv("ADMIN_JWT_SECRET", ""),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		AdminSessionTTL: getEnvAsDuration("ADMIN_SESSION_TTL", 12*time.Hour),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Impyreal Homes"),
		SalesNotifyEmail:  getEnv("SALES_NOTIFY_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		ArchiveBucket:       getEnv("LEAD_ARCHIVE_BUCKET", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		IntakeRatePerSec:   getEnvAsFloat("INTAKE_RATE_PER_SEC", 1),
		IntakeRateBurst:    getEnvAsInt("INTAKE_RATE_BURST", 5),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
