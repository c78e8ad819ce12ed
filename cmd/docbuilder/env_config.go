package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ortam/docbuilder/internal/config"
)

// envConfig holds configuration from environment variables.
// Lets containers configure the service without a YAML file.
type envConfig struct {
	ConfigPath string // DOCBUILDER_CONFIG: config file path

	// Server and storage
	Addr        string   // DOCBUILDER_ADDR: listen address
	CORSOrigins []string // DOCBUILDER_CORS_ORIGINS: comma-separated origins
	DBDriver    string   // DOCBUILDER_DB_DRIVER: sqlite3 or postgres
	DBDSN       string   // DOCBUILDER_DB_DSN: sqlite path or postgres URL

	// Auth
	JWTSecret     string        // DOCBUILDER_JWT_SECRET: token signing key
	TokenTTL      time.Duration // DOCBUILDER_TOKEN_TTL: token lifetime
	AdminEmail    string        // DOCBUILDER_SEED_ADMIN_EMAIL
	AdminPassword string        // DOCBUILDER_SEED_ADMIN_PASSWORD
	AdminName     string        // DOCBUILDER_SEED_ADMIN_NAME
	AdminRole     string        // DOCBUILDER_SEED_ADMIN_ROLE

	// Rendering
	Timeout    time.Duration // DOCBUILDER_TIMEOUT: PDF render timeout
	NoSandbox  *bool         // DOCBUILDER_NO_SANDBOX: 1/true disables the Chrome sandbox
	BrowserBin string        // DOCBUILDER_BROWSER_BIN: Chrome executable
	Workers    int           // DOCBUILDER_WORKERS: concurrent browsers
	AssetPath  string        // DOCBUILDER_ASSET_PATH: custom styles/templates

	LogLevel string // DOCBUILDER_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid DOCBUILDER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCBUILDER_CONFIG":              true,
	"DOCBUILDER_ADDR":                true,
	"DOCBUILDER_CORS_ORIGINS":        true,
	"DOCBUILDER_DB_DRIVER":           true,
	"DOCBUILDER_DB_DSN":              true,
	"DOCBUILDER_JWT_SECRET":          true,
	"DOCBUILDER_TOKEN_TTL":           true,
	"DOCBUILDER_SEED_ADMIN_EMAIL":    true,
	"DOCBUILDER_SEED_ADMIN_PASSWORD": true,
	"DOCBUILDER_SEED_ADMIN_NAME":     true,
	"DOCBUILDER_SEED_ADMIN_ROLE":     true,
	"DOCBUILDER_TIMEOUT":             true,
	"DOCBUILDER_NO_SANDBOX":          true,
	"DOCBUILDER_BROWSER_BIN":         true,
	"DOCBUILDER_WORKERS":             true,
	"DOCBUILDER_ASSET_PATH":          true,
	"DOCBUILDER_LOG_LEVEL":           true,
	"DOCBUILDER_CONTAINER":           true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, booleans and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:    os.Getenv("DOCBUILDER_CONFIG"),
		Addr:          os.Getenv("DOCBUILDER_ADDR"),
		DBDriver:      os.Getenv("DOCBUILDER_DB_DRIVER"),
		DBDSN:         os.Getenv("DOCBUILDER_DB_DSN"),
		JWTSecret:     os.Getenv("DOCBUILDER_JWT_SECRET"),
		AdminEmail:    os.Getenv("DOCBUILDER_SEED_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("DOCBUILDER_SEED_ADMIN_PASSWORD"),
		AdminName:     os.Getenv("DOCBUILDER_SEED_ADMIN_NAME"),
		AdminRole:     os.Getenv("DOCBUILDER_SEED_ADMIN_ROLE"),
		BrowserBin:    os.Getenv("DOCBUILDER_BROWSER_BIN"),
		AssetPath:     os.Getenv("DOCBUILDER_ASSET_PATH"),
		LogLevel:      os.Getenv("DOCBUILDER_LOG_LEVEL"),
	}

	if origins := os.Getenv("DOCBUILDER_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	cfg.TokenTTL = envDuration("DOCBUILDER_TOKEN_TTL")
	cfg.Timeout = envDuration("DOCBUILDER_TIMEOUT")

	if v := os.Getenv("DOCBUILDER_NO_SANDBOX"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoSandbox = &b
		}
	}
	if workers := os.Getenv("DOCBUILDER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

func envDuration(name string) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// warnUnknownEnvVars logs warnings for unrecognized DOCBUILDER_* variables.
// Helps catch typos like DOCBUILDER_JWT_SECERT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DOCBUILDER_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values onto cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if len(env.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = env.CORSOrigins
	}
	if env.DBDriver != "" {
		cfg.Database.Driver = env.DBDriver
	}
	if env.DBDSN != "" {
		cfg.Database.DSN = env.DBDSN
	}

	if env.JWTSecret != "" {
		cfg.Auth.JWTSecret = env.JWTSecret
	}
	if env.TokenTTL > 0 {
		cfg.Auth.TokenTTL = config.Duration(env.TokenTTL)
	}
	if env.AdminEmail != "" {
		cfg.Seed.AdminEmail = env.AdminEmail
	}
	if env.AdminPassword != "" {
		cfg.Seed.AdminPassword = env.AdminPassword
	}
	if env.AdminName != "" {
		cfg.Seed.AdminName = env.AdminName
	}
	if env.AdminRole != "" {
		cfg.Seed.AdminRole = env.AdminRole
	}

	if env.Timeout > 0 {
		cfg.Render.Timeout = config.Duration(env.Timeout)
	}
	if env.NoSandbox != nil {
		cfg.Render.NoSandbox = *env.NoSandbox
	}
	if env.BrowserBin != "" {
		cfg.Render.BrowserBin = env.BrowserBin
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
