package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
// StockActual solo cambia a través de ApplyStockDelta.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// ApplyStockDelta suma delta al agregado con piso en cero y devuelve el nuevo valor.
	// Devuelve domain.ErrNotFound si el producto no existe.
	ApplyStockDelta(ctx context.Context, id string, delta int64) (int64, error)
	// ListBelowMinimum devuelve productos activos con stock_actual < min_stock.
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
}
