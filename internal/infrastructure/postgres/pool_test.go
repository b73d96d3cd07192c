package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
)

func TestPoolConfig_TamanoYLockTimeout(t *testing.T) {
	cfg := config.DBConfig{
		Host: "127.0.0.1", Port: 5432, User: "farma", Password: "secreto", DBName: "farmacia", SSLMode: "disable",
		MaxConns: 10, MinConns: 3, LockTimeout: 2500 * time.Millisecond,
	}
	pc, err := postgres.PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, "2500ms", pc.ConnConfig.RuntimeParams["lock_timeout"])
	assert.Equal(t, "farmacia", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect, "el codec decimal se registra en cada conexión")
}

func TestPoolConfig_ValoresPorDefecto(t *testing.T) {
	cfg := config.DBConfig{Host: "127.0.0.1", Port: 5432, User: "farma", DBName: "farmacia", SSLMode: "disable", MinConns: 50}
	pc, err := postgres.PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(25), pc.MaxConns)
	assert.Equal(t, int32(25), pc.MinConns, "MinConns no supera MaxConns")
	_, ok := pc.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, ok)
}
