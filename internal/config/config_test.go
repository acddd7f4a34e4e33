package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "168h", cfg.JWT.AccessTokenExpiration)
	assert.True(t, cfg.Enrollment.WaitlistWhenFull)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.AllowedOrigins())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
server:
  port: "9000"
database:
  driver: memory
jwt:
  secret: from-file
enrollment:
  waitlist_when_full: false
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.False(t, cfg.Enrollment.WaitlistWhenFull)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {"JWT_SECRET": ""},
		"bad expiration":  {"JWT_SECRET": "x", "JWT_ACCESS_TOKEN_EXPIRATION": "soon"},
		"unknown driver":  {"JWT_SECRET": "x", "DB_DRIVER": "oracle"},
		"bad redis limit": {"JWT_SECRET": "x", "REDIS_ADDR": "localhost:6379", "REDIS_LOGIN_ATTEMPTS": "0"},
		"bad cors origin": {"JWT_SECRET": "x", "SERVER_CORS_ORIGINS": "localhost:5173"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRejectsMalformedEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_SEED", "maybe")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "DB_SEED")
}
