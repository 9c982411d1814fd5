package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"argentbank/internal/database"
)

// DevJWTSecret is used when JWT_SECRET is unset outside production.
const DevJWTSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration. It is built once at startup and
// passed to the components that need it.
type Config struct {
	// Server
	Env             string
	Port            string
	ShutdownTimeout time.Duration
	MigrationsDir   string
	AllowedOrigins  []string

	// Database
	Database database.Config

	// Auth
	JWTSecret        string
	JWTIssuer        string
	JWTExpirationDur time.Duration
	BcryptCost       int
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsesDevSecret reports whether tokens are signed with the insecure fallback key.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// Load loads configuration from environment variables, reading .env first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return load(os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(lookup envLookup) (*Config, error) {
	env := getEnv(lookup, "ENV", "development")

	cfg := &Config{
		Env:            env,
		Port:           getEnv(lookup, "PORT", "3001"),
		MigrationsDir:  getEnv(lookup, "MIGRATIONS_DIR", "migrations"),
		AllowedOrigins: splitList(getEnv(lookup, "CORS_ALLOWED_ORIGINS", "*")),

		Database: database.Config{
			Driver:     getEnv(lookup, "DB_DRIVER", database.DriverPostgres),
			Host:       getEnv(lookup, "DB_HOST", "localhost"),
			Port:       getEnv(lookup, "DB_PORT", "5432"),
			User:       getEnv(lookup, "DB_USER", "argentbank"),
			Password:   getEnv(lookup, "DB_PASSWORD", "argentbank"),
			DBName:     getEnv(lookup, "DB_NAME", "argentbank"),
			SSLMode:    getEnv(lookup, "DB_SSLMODE", "disable"),
			SQLitePath: getEnv(lookup, "DB_SQLITE_PATH", "argentbank.db"),
		},

		JWTSecret: getEnv(lookup, "JWT_SECRET", DevJWTSecret),
		JWTIssuer: getEnv(lookup, "JWT_ISSUER", "argentbank-api"),
	}

	var err error
	if cfg.JWTExpirationDur, err = getDuration(lookup, "JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration(lookup, "SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt(lookup, "BCRYPT_COST", 12); err != nil {
		return nil, err
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost)
	}
	if cfg.IsProduction() && cfg.UsesDevSecret() {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	switch cfg.Database.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(lookup envLookup, key, defaultValue string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getDuration(lookup envLookup, key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return d, nil
}

func getInt(lookup envLookup, key string, defaultValue int) (int, error) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
