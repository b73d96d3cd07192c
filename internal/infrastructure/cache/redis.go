// Package cache guarda en Redis el stock agregado por producto (go-redis v8).
// Es solo de lectura: el libro invalida las claves después de cada commit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

var _ inventory.StockCache = (*StockCache)(nil)

const keyPrefix = "farmacia:stock:"

// StockKey clave Redis del stock de un producto.
func StockKey(productID string) string {
	return keyPrefix + productID
}

// Connect abre el cliente a partir de una URL redis:// y verifica la conexión.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// StockCache implementa inventory.StockCache sobre Redis.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockCache construye la caché. ttl <= 0 equivale a un minuto.
func NewStockCache(client *redis.Client, ttl time.Duration) *StockCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StockCache{client: client, ttl: ttl}
}

// GetProductStock devuelve nil, nil si la clave no existe.
func (c *StockCache) GetProductStock(ctx context.Context, productID string) (*dto.ProductStockDTO, error) {
	data, err := c.client.Get(ctx, StockKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock cache: %w", err)
	}
	var stock dto.ProductStockDTO
	if err := json.Unmarshal(data, &stock); err != nil {
		return nil, fmt.Errorf("decode stock cache: %w", err)
	}
	return &stock, nil
}

// SetProductStock guarda el stock con el TTL configurado.
func (c *StockCache) SetProductStock(ctx context.Context, stock *dto.ProductStockDTO) error {
	data, err := json.Marshal(stock)
	if err != nil {
		return fmt.Errorf("encode stock cache: %w", err)
	}
	if err := c.client.Set(ctx, StockKey(stock.ProductID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set stock cache: %w", err)
	}
	return nil
}

// Invalidate borra las claves de los productos dados.
func (c *StockCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = StockKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate stock cache: %w", err)
	}
	return nil
}
