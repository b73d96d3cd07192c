package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo implementación sobre PostgreSQL (usable con pool o tx). Solo inserta y lista.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Create persiste un registro de historial.
func (r *HistoryRepo) Create(ctx context.Context, e *entity.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lot_history (id, transaction_id, lot_id, product_id, action, units, detail, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if e.CreatedBy != "" {
		createdBy = &e.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TransactionID, e.LotID, e.ProductID, e.Action, e.Units, e.Detail, e.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create lot history: %w", err)
	}
	return nil
}

// ListByLot historial del lote, más reciente primero.
func (r *HistoryRepo) ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, transaction_id, lot_id, product_id, action, units, detail, created_at, created_by
		FROM lot_history WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lot history: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistoryEntry
	for rows.Next() {
		var e entity.HistoryEntry
		var createdBy *string
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.LotID, &e.ProductID, &e.Action, &e.Units, &e.Detail, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan lot history: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
