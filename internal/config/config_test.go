package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/internal/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotelctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("HOTELCTL_API_URL", "")
	t.Setenv("TEST_SESSION_KEY", "s3cret")
	path := writeConfig(t, `
api:
  base_url: "https://hotel.example.com/api"
  timeout_seconds: 5
  breaker:
    consecutive_failures: 2
session:
  backend: sqlite
  path: /tmp/s.db
  passphrase: "${TEST_SESSION_KEY}"
ui:
  bookings_per_page: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://hotel.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, uint32(2), cfg.API.Breaker.ConsecutiveFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenFor())
	assert.Equal(t, "s3cret", cfg.Session.Passphrase)
	assert.Equal(t, 10, cfg.BookingsPerPage())

	opts := cfg.StorageOptions()
	assert.Equal(t, storage.BackendSQLite, opts.Backend)
	assert.Equal(t, "/tmp/s.db", opts.Path)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOTELCTL_API_URL", "")
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, storage.BackendFile, cfg.Session.Backend)
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.Equal(t, 8, cfg.RoomsPerPage())
	assert.Equal(t, 5, cfg.AdminRoomsPerPage())
	assert.Equal(t, 5, cfg.BookingsPerPage())
	assert.Equal(t, 4*time.Second, cfg.ErrorTTL())
	assert.Equal(t, 8*time.Second, cfg.SuccessTTL())
	assert.Equal(t, 9090, cfg.PrometheusPort())
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("HOTELCTL_API_URL", "http://override/api")
	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://file/api\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://override/api", cfg.API.BaseURL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("HOTELCTL_CONFIG", "")
	t.Setenv("HOTELCTL_API_URL", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOTELCTL_API_URL", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_STRIPE_KEY=pk_test_123\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DOTENV_STRIPE_KEY") })

	path := writeConfig(t, "payments:\n  stripe_publishable_key: ${DOTENV_STRIPE_KEY}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pk_test_123", cfg.Payments.StripePublishableKey)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api: [unterminated\n"))
	assert.Error(t, err)
}
