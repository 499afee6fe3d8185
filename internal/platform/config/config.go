package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the moderation backend.
type Server struct {
	Addr          string
	MetricsAddr   string
	JWTSigningKey string
	TokenTTL      time.Duration

	// PostgresDSN selects the Postgres-backed stores when set; the default
	// is the in-memory stores.
	PostgresDSN string

	// RedisURL enables the API rate limiter when set.
	RedisURL  string
	RateLimit RateLimit
}

// RateLimit configures the fixed-window request limiter.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("MODQUEUE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	metricsAddr := os.Getenv("MODQUEUE_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		MetricsAddr:   metricsAddr,
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      12 * time.Hour,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RateLimit: RateLimit{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}
