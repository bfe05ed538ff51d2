package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	DemoMode         bool
	AIAPIKey         string
	AIBaseURL        string
	AIModel          string
	AIEmbeddingModel string
	AIMaxTokens      int
	AIWorkerCount    int
	AIQueueSize      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:studymind.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		DemoMode:         envBoolOr("DEMO_MODE", false),
		AIAPIKey:         os.Getenv("AI_API_KEY"),
		AIBaseURL:        os.Getenv("AI_BASE_URL"),
		AIModel:          envOr("AI_MODEL", "gpt-4o-mini"),
		AIEmbeddingModel: envOr("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
		AIMaxTokens:      envIntOr("AI_MAX_TOKENS", 1024),
		AIWorkerCount:    envIntOr("AI_WORKER_COUNT", 2),
		AIQueueSize:      envIntOr("AI_QUEUE_SIZE", 32),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if !c.DemoMode && c.AIAPIKey == "" {
		return fmt.Errorf("AI_API_KEY is required unless DEMO_MODE is enabled")
	}
	if c.AIWorkerCount <= 0 {
		return fmt.Errorf("AI_WORKER_COUNT must be positive")
	}
	if c.AIQueueSize <= 0 {
		return fmt.Errorf("AI_QUEUE_SIZE must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
