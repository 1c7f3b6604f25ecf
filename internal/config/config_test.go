package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "sql", cfg.Store)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":5000", cfg.Addr())
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Warnings(), 3)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":           "8080",
		"DATABASE_URL":   "postgres://u:p@localhost/realty",
		"SESSION_SECRET": "s3cret",
		"NODE_ENV":       "development",
		"APP_ENV":        "production",
		"SESSION_TTL":    "30m",
		"STRICT_REVIEW":  "true",
		"SMTP_HOST":      "smtp.example.com",
		"REDIS_ADDR":     "localhost:6379",
		"TRUST_PROXY":    "1",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost/realty", cfg.DatabaseURL)
	assert.True(t, cfg.IsProduction(), "APP_ENV wins over NODE_ENV")
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.StrictReview)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.True(t, cfg.TrustProxy)
	assert.Len(t, cfg.Warnings(), 1)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"SESSION_TTL", "forever"},
		{"STRICT_REVIEW", "maybe"},
		{"TRUST_PROXY", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(k string) string {
				if k == tt.key {
					return tt.value
				}
				return ""
			})
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 0 }},
		{"ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"store", func(c *Config) { c.Store = "mongo" }},
		{"admin", func(c *Config) { c.AdminPassword = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "realty.yaml")
	yml := "port: 7000\nstore: local\nadmin_username: broker\nsmtp:\n  host: mail.local\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Port)
	assert.Equal(t, "local", cfg.Store)
	assert.Equal(t, "broker", cfg.AdminUsername)
	assert.Equal(t, "mail.local", cfg.SMTP.Host)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_USERNAME=dotenv-admin\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADMIN_USERNAME") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-admin", cfg.AdminUsername)
}

func TestBaseURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:5000", cfg.BaseURL())

	cfg.SiteURL = "https://realty.example/"
	assert.Equal(t, "https://realty.example", cfg.BaseURL())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
