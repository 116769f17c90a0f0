package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("nexus-test")
	require.NoError(t, err)

	assert.Equal(t, "nexus-test", cfg.ServiceName)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, StatsTransportDB, cfg.Stats.Transport)
	assert.Equal(t, 30*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, logger.Warn, cfg.DB.LogLevel)
	assert.True(t, cfg.DB.RunMigrations)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/nexus.db")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com, ,https://admin.example.com")
	t.Setenv("FEED_POLL_INTERVAL", "5s")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load("nexus-test")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/nexus.db", cfg.DB.GetDSN())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 5*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, StatsTransportLocal, cfg.Stats.Transport)
}

func TestExplicitTransportWinsOnSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("STATS_TRANSPORT", "db")

	cfg, err := Load("nexus-test")
	require.NoError(t, err)
	assert.Equal(t, StatsTransportDB, cfg.Stats.Transport)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := Load("nexus-test")
		assert.Error(t, err)
	})

	t.Run("http transport without url", func(t *testing.T) {
		t.Setenv("STATS_TRANSPORT", "http")
		t.Setenv("STATS_RPC_URL", "")
		_, err := Load("nexus-test")
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	c := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", c.GetDSN())
}
