// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/spendbook/internal/auth"
)

// Storage backends accepted by STORE_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
	BackendSupabase = "supabase"
	BackendMemory   = "memory"
)

var validBackends = []string{BackendSQLite, BackendMongo, BackendSupabase, BackendMemory}

type Config struct {
	// HTTP server
	Port          string
	SecureCookies bool
	CORSOrigins   []string

	// Storage
	StoreBackend  string
	DBPath        string
	MongoURI      string
	MongoDatabase string
	SupabaseURL   string
	SupabaseKey   string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Change events; publishing is off when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string

	LogLevel string
}

// Load reads a .env file if one exists, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		SecureCookies: getEnvBool("SECURE_COOKIES", false),
		CORSOrigins:   getEnvList("CORS_ORIGINS"),

		StoreBackend:  getEnv("STORE_BACKEND", BackendSQLite),
		DBPath:        getEnv("DB_PATH", "./data/spendbook.db"),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "spendbook"),
		SupabaseURL:   getEnv("SUPABASE_URL", ""),
		SupabaseKey:   getEnv("SUPABASE_KEY", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", auth.DefaultTokenDuration),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spendbook.events"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, origin := range c.CORSOrigins {
		if parsed, err := url.Parse(origin); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid CORS origin '%s': must be an http or https origin", origin))
		}
	}

	if !slices.Contains(validBackends, c.StoreBackend) {
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, validBackends))
	}

	switch c.StoreBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH cannot be empty when using sqlite backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			problems = append(problems, "MONGO_URI is required when using mongo backend")
		}
		if c.MongoDatabase == "" {
			problems = append(problems, "MONGO_DATABASE cannot be empty when using mongo backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			problems = append(problems, "SUPABASE_URL and SUPABASE_KEY are required when using supabase backend")
		}
	}

	// The in-memory backend is for local runs; everything else needs a real secret.
	if c.JWTSecret == "" && c.StoreBackend != BackendMemory {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.TokenTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n- " + strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
