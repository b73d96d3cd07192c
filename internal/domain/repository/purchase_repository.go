package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// PurchaseRepository persiste recepciones de compra.
type PurchaseRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	CreateLine(ctx context.Context, line *entity.PurchaseLine) error
}
