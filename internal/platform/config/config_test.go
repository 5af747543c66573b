// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/platform/config"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad_CompiledDefaults(t *testing.T) {
	t.Setenv("BACKEND_APPLICATION__JWT_SECRET", "test-secret")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Application.Port)
	assert.Equal(t, "0.0.0.0", cfg.Application.IPAddress)
	assert.Equal(t, "info", cfg.Application.LogLevel)
	assert.Equal(t, 300, cfg.Application.AccessTokenTTL)
	assert.Equal(t, 7200, cfg.Application.RefreshTokenTTL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoad_DefaultYAMLOverridesCompiledDefaults(t *testing.T) {
	t.Setenv("BACKEND_APPLICATION__JWT_SECRET", "test-secret")

	dir := t.TempDir()
	writeYAML(t, dir, "default.yaml", `
application:
  port: 9999
  log_level: "warn"
database:
  host: "db.internal"
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	// File values must survive the final environment pass even though the
	// corresponding BACKEND_ variables are unset.
	assert.Equal(t, 9999, cfg.Application.Port)
	assert.Equal(t, "warn", cfg.Application.LogLevel)
	assert.Equal(t, "db.internal", cfg.Database.Host)

	// Untouched fields keep their compiled defaults.
	assert.Equal(t, "0.0.0.0", cfg.Application.IPAddress)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_EnvironmentOverlayFile(t *testing.T) {
	t.Setenv("BACKEND_APPLICATION__JWT_SECRET", "test-secret")
	t.Setenv("BACKEND_APPLICATION__RUNTIME_ENVIRONMENT", "staging")

	dir := t.TempDir()
	writeYAML(t, dir, "default.yaml", `
application:
  port: 9999
database:
  host: "db.internal"
`)
	writeYAML(t, dir, "staging.yaml", `
application:
  port: 6060
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	// staging.yaml beats default.yaml where both set a value.
	assert.Equal(t, 6060, cfg.Application.Port)

	// default.yaml still applies where the overlay is silent.
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "staging", cfg.Application.RuntimeEnvironment)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	t.Setenv("BACKEND_APPLICATION__JWT_SECRET", "test-secret")
	t.Setenv("BACKEND_APPLICATION__PORT", "7777")
	t.Setenv("BACKEND_DATABASE__REQUIRE_SSL", "true")

	dir := t.TempDir()
	writeYAML(t, dir, "default.yaml", `
application:
  port: 9999
database:
  require_ssl: false
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Application.Port)
	assert.True(t, cfg.Database.RequireSSL)
}

func TestLoad_SecretFromYAML(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "default.yaml", `
application:
  jwt_secret: "yaml-secret"
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "yaml-secret", cfg.JWTSigningKey().Expose())
}

func TestLoad_MissingSecretRejected(t *testing.T) {
	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}
