package config

import (
	"os"
	"time"
)

// Config carries the environment wiring for the service. Values mirror the
// deployment environment variables; every field has a local-dev default.
type Config struct {
	ListenAddr  string
	PostgresDSN string
	RedisAddr   string

	// WorkflowEngineURL is the base URL of the engine's callback API.
	WorkflowEngineURL string

	// CallTimeout bounds every outbound call (store, warehouse, engine).
	CallTimeout time.Duration

	// RunTimeout bounds a single stored procedure run.
	RunTimeout time.Duration
}

func Load() Config {
	return Config{
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN:       getenv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=jobrelay port=5432 sslmode=disable"),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		WorkflowEngineURL: getenv("WORKFLOW_ENGINE_URL", "http://localhost:9090"),
		CallTimeout:       getduration("CALL_TIMEOUT", 10*time.Second),
		RunTimeout:        getduration("RUN_TIMEOUT", 30*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
