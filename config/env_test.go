package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port": 7000, "db_driver": "postgres", "session_secure": true}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nAPP_PORT=\"8000\"\nSESSION_TTL=90m\n"), 0o600))
	t.Setenv("RATE_LIMIT", "5")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env")) })

	assert.Equal(t, "8000", get("APP_PORT", ""))
	assert.Equal(t, "postgres", get("DB_DRIVER", ""))
	assert.Equal(t, "5", get("RATE_LIMIT", ""))
	assert.True(t, getBool("SESSION_SECURE", false))
}

func TestMissingFilesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, "none.env")))

	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, "sqlite", get("DB_DRIVER", ""))
	assert.Equal(t, defaultSessionCookie, get("SESSION_COOKIE", ""))
}

func TestTypedGetters(t *testing.T) {
	require.NoError(t, Load())

	mu.Lock()
	values = defaultValues()
	values["SESSION_TTL"] = "not-a-duration"
	values["CORS_ORIGINS"] = "http://a.test, http://b.test,,"
	values["MAX_BODY_BYTES"] = "-3"
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, defaultSessionTTL, SessionTTL())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, CORSOrigins())
	assert.Equal(t, int64(defaultMaxBodyBytes), MaxBodyBytes())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, "redis", SessionDriver())
}
