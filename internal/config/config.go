// Package config reads service settings from flags, falling back to the
// environment and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr       string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	DBMaxConns     int
	JWTSecret      string
	AllowedOrigins []string
	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// LoadDotEnv loads .env from the working directory if present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}
}

// Parse builds a Config from args (without the program name). Flags win
// over environment variables.
func Parse(name string, args []string) (*Config, error) {
	cfg := &Config{}
	var origins string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", getenv("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", getenv("DB_DRIVER", DriverPostgres), "Database driver (postgres or sqlite)")
	fs.StringVar(&cfg.DBHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	fs.StringVar(&cfg.DBPort, "db-port", getenv("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.DBPassword, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.DBName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", getenv("SQLITE_PATH", "gamenight.db"), "SQLite database file")
	fs.IntVar(&cfg.DBMaxConns, "db-max-conns", getint("DB_MAX_CONNS", 8), "Maximum open database connections")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "HS256 secret shared with the identity service")
	fs.StringVar(&origins, "cors-origins", getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), "Comma-separated allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.AllowedOrigins = splitList(origins)
	cfg.Args = fs.Args()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
			return errors.New("postgres requires POSTGRES_HOST, POSTGRES_USER and POSTGRES_DB")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}

	if c.DBMaxConns < 1 {
		return fmt.Errorf("db max conns must be positive, got %d", c.DBMaxConns)
	}
	return nil
}

// RequireJWTSecret fails for commands that serve authenticated requests.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
