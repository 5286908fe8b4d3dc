package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/articles")
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/articles", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, defaultAddr, cfg.Server.Addr)
	assert.Equal(t, defaultQueryTimeout, cfg.Database.QueryTimeout)
	assert.Equal(t, defaultMaxOpenConns, cfg.Database.MaxOpenConns)
	assert.Equal(t, defaultLogLevel, cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := []byte(`
server:
  addr: ":8080"
  request_timeout: 3s
database:
  url: postgres://file/articles
  max_open_conns: 7
admin:
  open: true
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	t.Setenv("DATABASE_URL", "postgres://env/articles")
	t.Setenv("DATABASE_QUERY_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "postgres://env/articles", cfg.Database.URL)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Admin.Open)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantKey string
	}{
		{
			name:    "missing database url",
			cfg:     Config{Admin: AdminConfig{Password: "x"}},
			wantKey: "database.url",
		},
		{
			name:    "gate enabled without password",
			cfg:     Config{Database: DatabaseConfig{URL: "postgres://x"}},
			wantKey: "admin.password",
		},
		{
			name: "open gate without password",
			cfg:  Config{Database: DatabaseConfig{URL: "postgres://x"}, Admin: AdminConfig{Open: true}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantKey == "" {
				assert.NoError(t, err)
				return
			}

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.wantKey, cfgErr.Key)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.url", envKey("DATABASE_URL"))
	assert.Equal(t, "server.request_timeout", envKey("SERVER_REQUEST_TIMEOUT"))
	assert.Equal(t, "admin.password", envKey("ADMIN_PASSWORD"))
	assert.Empty(t, envKey("PATH"))
	assert.Empty(t, envKey("SERVER"))
	assert.Empty(t, envKey("GOPATH_EXTRA"))
}
