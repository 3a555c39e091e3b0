package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "STORE_BACKEND", "MONGO_URI", "SESSION_SECRET",
		"FEATURE_DAYS", "ADMIN_USERNAMES", "MPESA_FAIL_ON_CALLBACK_ERROR",
		"SESSION_TTL", "WORKER_CONCURRENCY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 30*24*time.Hour, cfg.MPesa.FeatureDuration())
	assert.False(t, cfg.MPesa.FailOnCallbackErr)
	assert.Equal(t, 10, cfg.Jobs.Concurrency)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.Admin.Usernames)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEATURE_DAYS", "7")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("ADMIN_USERNAMES", " Root , ops ,,")
	t.Setenv("MPESA_FAIL_ON_CALLBACK_ERROR", "true")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.MPesa.FeatureDuration())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"Root", "ops"}, cfg.Admin.Usernames)
	assert.True(t, cfg.MPesa.FailOnCallbackErr)
	assert.Equal(t, 10, cfg.Jobs.Concurrency)
}

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		mongoURI string
		want     string
	}{
		{"default", "", "", BackendPostgres},
		{"mongo uri alone switches", "", "mongodb://localhost", BackendMongo},
		{"explicit wins", "postgres", "mongodb://localhost", BackendPostgres},
		{"case insensitive", " Memory ", "", BackendMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", tt.backend)
			t.Setenv("MONGO_URI", tt.mongoURI)
			assert.Equal(t, tt.want, resolveBackend())
		})
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "sqlite"}},
		{"mongo without uri", map[string]string{"STORE_BACKEND": "mongo"}},
		{"non-positive feature days", map[string]string{"FEATURE_DAYS": "0"}},
		{"default secret in production", map[string]string{"APP_ENV": "production"}},
		{"memory store in production", map[string]string{
			"APP_ENV": "production", "SESSION_SECRET": "real-secret", "STORE_BACKEND": "memory",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "30s")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.MaxConnIdleTime)

	t.Setenv("DB_PORT", "abc")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
