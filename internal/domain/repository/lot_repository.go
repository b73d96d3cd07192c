package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia de lotes. Las implementaciones leen y escriben
// la forma de cantidad indicada por schema.Capabilities; el dominio solo ve Units + Factor.
// Los métodos Get devuelven (nil, nil) cuando el lote no existe.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	// ListActiveByProductForUpdate devuelve los lotes activos en orden FIFO
	// (expiration_date ASC NULLS LAST, id ASC) y los bloquea.
	ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.Lot, error)
	ListByProduct(ctx context.Context, productID string, includeInactive bool) ([]*entity.Lot, error)
	// ListExpiring devuelve lotes activos con saldo que vencen antes de before.
	ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error)
	// GetNewestByProduct devuelve el último lote creado del producto (activo o no).
	GetNewestByProduct(ctx context.Context, productID string) (*entity.Lot, error)
	UpdateQuantity(ctx context.Context, lot *entity.Lot) error
	// SetActive cambia el estado del lote; now es el reloj de la transacción.
	SetActive(ctx context.Context, id string, active bool, reason string, now time.Time) error
}
