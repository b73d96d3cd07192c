package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// DevolutionRepository persiste devoluciones y expone lo ya devuelto por línea de venta.
type DevolutionRepository interface {
	Create(ctx context.Context, devolution *entity.Devolution) error
	CreateLine(ctx context.Context, line *entity.DevolutionLine) error
	// SumReturnedUnits suma las unidades devueltas previamente contra la línea de venta.
	SumReturnedUnits(ctx context.Context, saleLineID string) (int64, error)
}
