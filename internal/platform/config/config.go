// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and layered configuration loading.

Settings are resolved in four layers, each overriding the previous one:

 1. Compiled-in defaults
 2. config/default.yaml
 3. config/<runtime_environment>.yaml (e.g. config/production.yaml)
 4. OS environment variables with the BACKEND_ prefix and "__" as the
    section separator (e.g. BACKEND_APPLICATION__JWT_SECRET)

Usage:

	cfg, err := config.Load("./config")
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Secrets (JWT signing key, database password) are exposed through [sec.Secret]
so they cannot leak via logging or accidental serialization.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the Authgate API server.
type Config struct {
	Application ApplicationConfig `yaml:"application" envPrefix:"APPLICATION__"`
	Database    DatabaseConfig    `yaml:"database"    envPrefix:"DATABASE__"`
	Redis       RedisConfig       `yaml:"redis"       envPrefix:"REDIS__"`
}

// ApplicationConfig groups server, logging, and token-issuance settings.
type ApplicationConfig struct {

	// Server bind address
	IPAddress string `yaml:"ip_address" env:"IP_ADDRESS" envDefault:"0.0.0.0"`
	Port      int    `yaml:"port"       env:"PORT"       envDefault:"8080"`

	// LogLevel is one of: debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" envDefault:"info"`

	// RuntimeEnvironment selects the second YAML layer (development, staging, production).
	RuntimeEnvironment string `yaml:"runtime_environment" env:"RUNTIME_ENVIRONMENT" envDefault:"development"`

	// Token signing and issuance
	JWTSecret       string `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer       string `yaml:"jwt_issuer" env:"JWT_ISSUER" envDefault:"authgate"`
	AccessTokenTTL  int    `yaml:"access_token_ttl"  env:"ACCESS_TOKEN_TTL"  envDefault:"300"`
	RefreshTokenTTL int    `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" envDefault:"7200"`

	// Default listing parameters for admin queries
	Default QueryDefaults `yaml:"default" envPrefix:"DEFAULT__"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `yaml:"migration_path" env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// QueryDefaults holds the fallback pagination values for listing endpoints.
type QueryDefaults struct {
	QueryLimit  int64 `yaml:"query_limit"  env:"QUERY_LIMIT"  envDefault:"10"`
	QueryOffset int64 `yaml:"query_offset" env:"QUERY_OFFSET" envDefault:"0"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host         string `yaml:"host"          env:"HOST"          envDefault:"localhost"`
	Port         int    `yaml:"port"          env:"PORT"          envDefault:"5432"`
	Username     string `yaml:"username"      env:"USERNAME"      envDefault:"postgres"`
	Password     string `yaml:"password"      env:"PASSWORD"`
	DatabaseName string `yaml:"database_name" env:"DATABASE_NAME" envDefault:"authgate"`
	RequireSSL   bool   `yaml:"require_ssl"   env:"REQUIRE_SSL"   envDefault:"false"`
}

// RedisConfig holds key-value store connection settings.
type RedisConfig struct {
	URL string `yaml:"url" env:"URL" envDefault:"redis://localhost:6379/0"`
}

// # Configuration Loading

// Load resolves the full configuration from the given directory of YAML files
// plus the process environment.
//
// Parameters:
//   - dir: directory containing default.yaml and per-environment overlays.
//     An empty dir skips the file layers entirely.
//
// Returns:
//   - *Config: the fully resolved configuration.
//   - error: if a file is malformed or a required value is missing.
func Load(dir string) (*Config, error) {

	// Layer 1: compiled-in defaults only. Parsing against an empty
	// environment applies every envDefault tag without reading the real
	// environment, so later layers are never clobbered back to a default.
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      "BACKEND_",
		Environment: map[string]string{},
	}); err != nil {
		return nil, fmt.Errorf("config: failed to apply defaults: %w", err)
	}

	if dir != "" {
		// Layer 2: shared defaults file.
		if err := applyFile(cfg, filepath.Join(dir, "default.yaml")); err != nil {
			return nil, err
		}

		// Layer 3: per-environment overlay, selected by the environment
		// resolved so far (env var beats default.yaml for the selector).
		envName := cfg.Application.RuntimeEnvironment
		if raw := os.Getenv("BACKEND_APPLICATION__RUNTIME_ENVIRONMENT"); raw != "" {
			envName = raw
		}
		if err := applyFile(cfg, filepath.Join(dir, envName+".yaml")); err != nil {
			return nil, err
		}
	}

	// Layer 4: environment variables override everything from the files.
	// Parsed through pointer fields so that only variables actually present
	// in the environment touch the resolved configuration.
	overlay := &envOverlay{}
	if err := env.ParseWithOptions(overlay, env.Options{Prefix: "BACKEND_"}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	overlay.applyTo(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// # Environment Overlay

// envOverlay mirrors [Config] with pointer fields and no envDefault tags.
// A nil field means the variable was absent and the YAML/default value
// stands; a non-nil field is an explicit override.
type envOverlay struct {
	Application applicationOverlay `envPrefix:"APPLICATION__"`
	Database    databaseOverlay    `envPrefix:"DATABASE__"`
	Redis       redisOverlay       `envPrefix:"REDIS__"`
}

type applicationOverlay struct {
	IPAddress          *string `env:"IP_ADDRESS"`
	Port               *int    `env:"PORT"`
	LogLevel           *string `env:"LOG_LEVEL"`
	RuntimeEnvironment *string `env:"RUNTIME_ENVIRONMENT"`
	JWTSecret          *string `env:"JWT_SECRET"`
	JWTIssuer          *string `env:"JWT_ISSUER"`
	AccessTokenTTL     *int    `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    *int    `env:"REFRESH_TOKEN_TTL"`

	Default queryDefaultsOverlay `envPrefix:"DEFAULT__"`

	MigrationPath *string `env:"MIGRATION_PATH"`
}

type queryDefaultsOverlay struct {
	QueryLimit  *int64 `env:"QUERY_LIMIT"`
	QueryOffset *int64 `env:"QUERY_OFFSET"`
}

type databaseOverlay struct {
	Host         *string `env:"HOST"`
	Port         *int    `env:"PORT"`
	Username     *string `env:"USERNAME"`
	Password     *string `env:"PASSWORD"`
	DatabaseName *string `env:"DATABASE_NAME"`
	RequireSSL   *bool   `env:"REQUIRE_SSL"`
}

type redisOverlay struct {
	URL *string `env:"URL"`
}

// applyTo copies every present override onto the resolved configuration.
func (o *envOverlay) applyTo(cfg *Config) {
	setString(&cfg.Application.IPAddress, o.Application.IPAddress)
	setInt(&cfg.Application.Port, o.Application.Port)
	setString(&cfg.Application.LogLevel, o.Application.LogLevel)
	setString(&cfg.Application.RuntimeEnvironment, o.Application.RuntimeEnvironment)
	setString(&cfg.Application.JWTSecret, o.Application.JWTSecret)
	setString(&cfg.Application.JWTIssuer, o.Application.JWTIssuer)
	setInt(&cfg.Application.AccessTokenTTL, o.Application.AccessTokenTTL)
	setInt(&cfg.Application.RefreshTokenTTL, o.Application.RefreshTokenTTL)
	setInt64(&cfg.Application.Default.QueryLimit, o.Application.Default.QueryLimit)
	setInt64(&cfg.Application.Default.QueryOffset, o.Application.Default.QueryOffset)
	setString(&cfg.Application.MigrationPath, o.Application.MigrationPath)

	setString(&cfg.Database.Host, o.Database.Host)
	setInt(&cfg.Database.Port, o.Database.Port)
	setString(&cfg.Database.Username, o.Database.Username)
	setString(&cfg.Database.Password, o.Database.Password)
	setString(&cfg.Database.DatabaseName, o.Database.DatabaseName)
	setBool(&cfg.Database.RequireSSL, o.Database.RequireSSL)

	setString(&cfg.Redis.URL, o.Redis.URL)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setInt64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// applyFile merges one YAML file into cfg. A missing file is not an error;
// overlays are optional by design.
func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return nil
}

// validate enforces presence of values that have no sane default.
func (c *Config) validate() error {
	if c.Application.JWTSecret == "" {
		return errors.New("config: application.jwt_secret is required")
	}
	if c.Application.AccessTokenTTL <= 0 || c.Application.RefreshTokenTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	return nil
}

// # Derived Accessors

// Addr returns the host:port bind address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Application.IPAddress, c.Application.Port)
}

// DatabaseURL assembles the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "disable"
	if c.Database.RequireSSL {
		sslMode = "require"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.Username, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.DatabaseName, sslMode)
}

// JWTSigningKey wraps the raw signing secret in a redacting container.
func (c *Config) JWTSigningKey() sec.Secret {
	return sec.NewSecret(c.Application.JWTSecret)
}

// AccessTokenLifetime returns the access-token TTL as a [time.Duration].
func (c *Config) AccessTokenLifetime() time.Duration {
	return time.Duration(c.Application.AccessTokenTTL) * time.Second
}

// RefreshTokenLifetime returns the refresh-token TTL as a [time.Duration].
func (c *Config) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.Application.RefreshTokenTTL) * time.Second
}

// QueryLimit returns the configured default listing limit, falling back to
// the compiled-in constant when unset.
func (c *Config) QueryLimit() int64 {
	if c.Application.Default.QueryLimit <= 0 {
		return constants.DefaultQueryLimit
	}
	return c.Application.Default.QueryLimit
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Application.RuntimeEnvironment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Application.RuntimeEnvironment == "production"
}
