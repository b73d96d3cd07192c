package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial de lotes sobre SQLite. Solo inserta y lista.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar db o tx.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

type historyRow struct {
	ID            string         `db:"id"`
	TransactionID string         `db:"transaction_id"`
	LotID         string         `db:"lot_id"`
	ProductID     string         `db:"product_id"`
	Action        string         `db:"action"`
	Units         int64          `db:"units"`
	Detail        string         `db:"detail"`
	CreatedAt     time.Time      `db:"created_at"`
	CreatedBy     sql.NullString `db:"created_by"`
}

// Create persiste un registro de historial.
func (r *HistoryRepo) Create(ctx context.Context, e *entity.HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	createdBy := sql.NullString{String: e.CreatedBy, Valid: e.CreatedBy != ""}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO lot_history (id, transaction_id, lot_id, product_id, action, units, detail, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TransactionID, e.LotID, e.ProductID, e.Action, e.Units, e.Detail, e.CreatedAt, createdBy)
	if err != nil {
		return fmt.Errorf("create lot history: %w", err)
	}
	return nil
}

// ListByLot historial del lote, más reciente primero.
func (r *HistoryRepo) ListByLot(ctx context.Context, lotID string, limit, offset int) ([]*entity.HistoryEntry, error) {
	var rows []historyRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id, transaction_id, lot_id, product_id, action, units, detail, created_at, created_by
		FROM lot_history WHERE lot_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lot history: %w", err)
	}
	list := make([]*entity.HistoryEntry, 0, len(rows))
	for _, h := range rows {
		list = append(list, &entity.HistoryEntry{
			ID: h.ID, TransactionID: h.TransactionID, LotID: h.LotID, ProductID: h.ProductID,
			Action: h.Action, Units: h.Units, Detail: h.Detail, CreatedAt: h.CreatedAt, CreatedBy: h.CreatedBy.String,
		})
	}
	return list, nil
}
