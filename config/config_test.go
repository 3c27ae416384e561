package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, int64(1<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 3, cfg.PostsPerPage)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.UserDeleteCascade)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	raw := `{
		"app": {"AppPort": "9000", "JWTSecret": "from-json", "PostsPerPage": 5},
		"database": {"Driver": "mongo", "MongoDatabase": "blogtest"},
		"redis": {"Host": "cache.local", "CacheTTLSeconds": 60}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.json"), []byte(raw), 0o644))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("USER_DELETE_CASCADE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.AppPort, "env overrides json")
	assert.Equal(t, "from-json", cfg.JWTSecret)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, "blogtest", cfg.MongoDatabase)
	assert.Equal(t, 5, cfg.PostsPerPage)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.UserDeleteCascade)
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.json"), []byte("{"), 0o644))
	t.Setenv("JWT_SECRET", "x")

	_, err := Load()
	assert.Error(t, err)
}

// chdir switches the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
