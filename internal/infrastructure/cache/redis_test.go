package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/cache"
)

func TestStockKey(t *testing.T) {
	assert.Equal(t, "farmacia:stock:p-1", cache.StockKey("p-1"))
}

func TestConnect_URLInvalida(t *testing.T) {
	_, err := cache.Connect(context.Background(), "http://no-es-redis")
	require.Error(t, err)
}

// Sin servidor Redis las operaciones devuelven error; el libro lo registra y sigue.
func TestStockCache_SinServidor(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := cache.NewStockCache(client, 0)
	ctx := context.Background()

	_, err := c.GetProductStock(ctx, "p-1")
	assert.Error(t, err)
	assert.Error(t, c.SetProductStock(ctx, &dto.ProductStockDTO{ProductID: "p-1"}))
	assert.Error(t, c.Invalidate(ctx, "p-1"))
	assert.NoError(t, c.Invalidate(ctx), "sin claves no hay llamada a Redis")
}
