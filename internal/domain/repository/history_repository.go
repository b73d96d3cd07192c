package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// HistoryRepository registro de auditoría de lotes. Solo inserción y lectura.
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.HistoryEntry) error
	ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.HistoryEntry, error)
}
