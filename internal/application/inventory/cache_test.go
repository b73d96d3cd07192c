package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// Caché de stock en memoria con ganchos para intercalar commits
// ──────────────────────────────────────────────────────────────────────────────

type memStockCache struct {
	mu      sync.Mutex
	entries map[string]dto.ProductStockDTO
	sets    int

	onGet func() // se ejecuta en cada lectura, antes de responder
	onSet func() // se ejecuta tras guardar la entrada
}

func newMemStockCache() *memStockCache {
	return &memStockCache{entries: make(map[string]dto.ProductStockDTO)}
}

func (c *memStockCache) GetProductStock(_ context.Context, productID string) (*dto.ProductStockDTO, error) {
	if hook := c.takeGet(); hook != nil {
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[productID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memStockCache) SetProductStock(_ context.Context, stock *dto.ProductStockDTO) error {
	c.mu.Lock()
	c.entries[stock.ProductID] = *stock
	c.sets++
	hook := c.onSet
	c.onSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (c *memStockCache) Invalidate(_ context.Context, productIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range productIDs {
		delete(c.entries, id)
	}
	return nil
}

func (c *memStockCache) takeGet() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	hook := c.onGet
	c.onGet = nil
	return hook
}

func (c *memStockCache) entry(productID string) (dto.ProductStockDTO, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[productID]
	return s, ok
}

func (c *memStockCache) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

// ──────────────────────────────────────────────────────────────────────────────

func TestProductStock_LecturaSeCachea(t *testing.T) {
	c := newMemStockCache()
	env := newCachedEnv(t, c)
	p := env.product(t, "AMOX", 0)
	env.receive(t, p, lotSpec{packages: 10, factor: 1, price: 100})

	assert.Equal(t, int64(10), env.stock(t, p))
	cached, ok := c.entry(p)
	require.True(t, ok)
	assert.Equal(t, int64(10), cached.StockActual)

	// la venta invalida y la siguiente lectura vuelve a la base
	_, err := env.sales.Sell(context.Background(), testActor, unitSale(p, 4))
	require.NoError(t, err)
	_, ok = c.entry(p)
	assert.False(t, ok)
	assert.Equal(t, int64(6), env.stock(t, p))
}

func TestProductStock_CommitDuranteLecturaNoLlenaCache(t *testing.T) {
	c := newMemStockCache()
	env := newCachedEnv(t, c)
	p := env.product(t, "AMOX", 0)
	env.receive(t, p, lotSpec{packages: 10, factor: 1, price: 100})

	c.onGet = func() {
		_, err := env.sales.Sell(context.Background(), testActor, unitSale(p, 3))
		require.NoError(t, err)
	}
	_, err := env.queries.ProductStock(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 0, c.setCount(), "no se guarda lo leído si hubo un commit en medio")
	_, ok := c.entry(p)
	assert.False(t, ok)

	assert.Equal(t, int64(7), env.stock(t, p))
	assert.Equal(t, 1, c.setCount())
}

func TestProductStock_CommitDuranteEscrituraDescartaEntrada(t *testing.T) {
	c := newMemStockCache()
	env := newCachedEnv(t, c)
	p := env.product(t, "AMOX", 0)
	env.receive(t, p, lotSpec{packages: 10, factor: 1, price: 100})

	// la venta confirma e invalida justo antes de que termine la escritura
	c.onSet = func() {
		_, err := env.sales.Sell(context.Background(), testActor, unitSale(p, 2))
		require.NoError(t, err)
		c.mu.Lock()
		c.entries[p] = dto.ProductStockDTO{ProductID: p, StockActual: 10}
		c.mu.Unlock()
	}
	got, err := env.queries.ProductStock(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.StockActual)

	_, ok := c.entry(p)
	assert.False(t, ok, "la entrada obsoleta no sobrevive al commit")
	assert.Equal(t, int64(8), env.stock(t, p))
}
