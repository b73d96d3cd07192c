package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/pkg/config"
)

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	cfg, err := config.Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_SQLiteYRedis(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_STOCK_TTL", "45")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HTTP_READ_TIMEOUT", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, ":memory:", cfg.Store.SQLitePath)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 45*time.Second, cfg.Redis.StockTTL)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "farma", Password: "p@ss:word", DBName: "farmacia", SSLMode: "disable"}
	assert.Equal(t, "postgres://farma:p%40ss%3Aword@db:5432/farmacia?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}
