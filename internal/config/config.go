// Package config loads and validates the docbuilder configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ortam/docbuilder/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxAddrLength     = 256
	MaxDSNLength      = 2048
	MaxSecretLength   = 512
	MaxEmailLength    = 254 // RFC 5321
	MaxNameLength     = 100
	MaxPasswordLength = 72 // bcrypt input limit
	MaxContactLength  = 200
	MaxPathLength     = 4096
	MaxOriginLength   = 2048
	MaxWorkers        = 32
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the service and the CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Seed     SeedConfig     `yaml:"seed"`
	Render   RenderConfig   `yaml:"render"`
	Brand    BrandConfig    `yaml:"brand"`
	Assets   AssetsConfig   `yaml:"assets"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	CORSOrigins     []string `yaml:"corsOrigins"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// DatabaseConfig selects the SQL driver and connection string.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`    // file path for sqlite3, URL for postgres
}

// AuthConfig defines token signing.
type AuthConfig struct {
	JWTSecret string   `yaml:"jwtSecret"`
	TokenTTL  Duration `yaml:"tokenTTL"`
}

// SeedConfig describes the administrator created on first login.
// Seeding is skipped when AdminEmail or AdminPassword is empty.
type SeedConfig struct {
	AdminEmail    string `yaml:"adminEmail"`
	AdminPassword string `yaml:"adminPassword"`
	AdminName     string `yaml:"adminName"`
	AdminRole     string `yaml:"adminRole"`
}

// RenderConfig controls the headless browser.
type RenderConfig struct {
	Timeout    Duration `yaml:"timeout"`
	NoSandbox  bool     `yaml:"noSandbox"`
	BrowserBin string   `yaml:"browserBin"` // empty = rod lookup/download
	Workers    int      `yaml:"workers"`    // 0 = derive from GOMAXPROCS
}

// BrandConfig holds the company identity printed on every page.
type BrandConfig struct {
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"http://localhost:5173"},
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{Driver: DriverSQLite, DSN: "docbuilder.db"},
		Auth:     AuthConfig{TokenTTL: Duration(7 * 24 * time.Hour)},
		Seed:     SeedConfig{AdminName: "Admin", AdminRole: "ADMIN"},
		Render: RenderConfig{
			Timeout:   Duration(60 * time.Second),
			NoSandbox: true,
		},
		Brand: BrandConfig{
			Name:    "ORTAM AI",
			Contact: "ORTAM AI | info@ortam.ai | www.ortam.ai",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks field lengths and enumerated values.
// Called by LoadConfig; callers that assemble a Config by hand should call it too.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"database.dsn", c.Database.DSN, MaxDSNLength},
		{"auth.jwtSecret", c.Auth.JWTSecret, MaxSecretLength},
		{"seed.adminEmail", c.Seed.AdminEmail, MaxEmailLength},
		{"seed.adminPassword", c.Seed.AdminPassword, MaxPasswordLength},
		{"seed.adminName", c.Seed.AdminName, MaxNameLength},
		{"render.browserBin", c.Render.BrowserBin, MaxPathLength},
		{"brand.name", c.Brand.Name, MaxNameLength},
		{"brand.contact", c.Brand.Contact, MaxContactLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for i, origin := range c.Server.CORSOrigins {
		if err := validateFieldLength(fmt.Sprintf("server.corsOrigins[%d]", i), origin, MaxOriginLength); err != nil {
			return err
		}
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: database.driver %q (must be %s or %s)", ErrInvalidValue, c.Database.Driver, DriverSQLite, DriverPostgres)
	}

	switch strings.ToUpper(c.Seed.AdminRole) {
	case "", "ADMIN", "EDITOR":
	default:
		return fmt.Errorf("%w: seed.adminRole %q (must be ADMIN or EDITOR)", ErrInvalidValue, c.Seed.AdminRole)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}

	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if c.Render.Timeout < 0 {
		return fmt.Errorf("%w: render.timeout cannot be negative", ErrInvalidValue)
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("%w: auth.tokenTTL cannot be negative", ErrInvalidValue)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, layered
// over DefaultConfig. A value containing a path separator is a file path;
// anything else is a name searched in the current directory and then in
// the user config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath tries {name}.yaml and {name}.yml in the current
// directory, then in {UserConfigDir}/docbuilder/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "docbuilder", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
