package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SaleRepository persiste ventas y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetLineForUpdate bloquea la línea para serializar devoluciones concurrentes.
	GetLineForUpdate(ctx context.Context, id string) (*entity.SaleLine, error)
	// FindLineForUpdate busca la línea de una venta por producto y lote.
	FindLineForUpdate(ctx context.Context, saleID, productID, lotID string) (*entity.SaleLine, error)
	ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
}
