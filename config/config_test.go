package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/futsapp-test.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.App.Port)
	assert.Equal(t, "/tmp/futsapp-test.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "https://router.project-osrm.org", cfg.Directions.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Directions.Timeout)
	assert.Equal(t, 1, cfg.Directions.MaxRetries)
	assert.True(t, cfg.App.SeedMatches)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("DIRECTIONS_BASE_URL", "http://localhost:5000/")
	t.Setenv("DIRECTIONS_TIMEOUT", "2s")
	t.Setenv("DIRECTIONS_MAX_RETRIES", "0")
	t.Setenv("SEED_MATCHES", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "http://localhost:5000", cfg.Directions.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Directions.Timeout)
	assert.Equal(t, 0, cfg.Directions.MaxRetries)
	assert.False(t, cfg.App.SeedMatches)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORAGE_DRIVER", "mongo"},
		{"bad timeout", "DIRECTIONS_TIMEOUT", "soon"},
		{"bad retries", "DIRECTIONS_MAX_RETRIES", "twice"},
		{"negative retries", "DIRECTIONS_MAX_RETRIES", "-1"},
		{"bad seed flag", "SEED_MATCHES", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestConnectDB_Memory(t *testing.T) {
	var cfg Config
	cfg.Storage.Driver = DriverMemory

	db, err := ConnectDB(cfg)
	require.NoError(t, err)
	assert.Nil(t, db)
}

func TestConnectDB_SQLite(t *testing.T) {
	var cfg Config
	cfg.App.Env = "test"
	cfg.Storage.Driver = DriverSQLite
	cfg.Storage.SQLitePath = t.TempDir() + "/nested/futsapp.db"

	db, err := ConnectDB(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	_ = sqlDB.Close()
}
