package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	NATSURL           string
	QueueStream       string
	QueueSubject      string
	QueueConsumer     string
	StoragePath       string
	PublicBaseURL     string
	WorkerConcurrency int
	SynthProvider     string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	DefaultTheme      string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. DATABASE_URL and NATS_URL may be left empty: both
// binaries then fall back to in-process backends, which is only useful for
// local development.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		NATSURL:           os.Getenv("NATS_URL"),
		QueueStream:       getEnv("QUEUE_STREAM", "DECKGEN"),
		QueueSubject:      getEnv("QUEUE_SUBJECT", "deckgen.jobs"),
		QueueConsumer:     getEnv("QUEUE_CONSUMER", "deckgen-workers"),
		StoragePath:       getEnv("STORAGE_PATH", "./storage"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		SynthProvider:     getEnv("SYNTH_PROVIDER", "gemini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		DefaultTheme:      getEnv("DEFAULT_THEME", "default"),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	return cfg, nil
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
