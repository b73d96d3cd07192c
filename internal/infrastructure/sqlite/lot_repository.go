package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/lotsql"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre SQLite. SQLite no tiene FOR UPDATE:
// la exclusión la da la conexión única del TxRunner.
type LotRepo struct {
	q    Querier
	caps *schema.Capabilities
}

// NewLotRepository construye el adaptador de lotes. Pasar db o tx.
func NewLotRepository(q Querier, caps *schema.Capabilities) *LotRepo {
	return &LotRepo{q: q, caps: caps}
}

// Create persiste un nuevo lote.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query, args, err := lotsql.Insert(r.caps, lot)
	if err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.get(ctx, lotsql.Select(r.caps)+" WHERE id = ?", id)
}

// GetForUpdate igual que GetByID.
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

// ListActiveByProductForUpdate lotes activos del producto en orden FIFO.
func (r *LotRepo) ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.Lot, error) {
	return r.ListByProduct(ctx, productID, false)
}

// ListByProduct lotes del producto en orden FIFO.
func (r *LotRepo) ListByProduct(ctx context.Context, productID string, includeInactive bool) ([]*entity.Lot, error) {
	query := lotsql.Select(r.caps) + " WHERE product_id = ?"
	if !includeInactive {
		query += " AND active = 1"
	}
	return r.list(ctx, query+" "+lotsql.FIFOOrder, productID)
}

// ListExpiring lotes activos con saldo y vencimiento anterior a before.
func (r *LotRepo) ListExpiring(ctx context.Context, before time.Time) ([]*entity.Lot, error) {
	lots, err := r.list(ctx, lotsql.Select(r.caps)+" WHERE active = 1 AND expiration_date IS NOT NULL AND expiration_date < ? "+lotsql.FIFOOrder, before.UTC())
	if err != nil {
		return nil, err
	}
	out := lots[:0]
	for _, l := range lots {
		if l.Units > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetNewestByProduct último lote creado del producto.
func (r *LotRepo) GetNewestByProduct(ctx context.Context, productID string) (*entity.Lot, error) {
	return r.get(ctx, lotsql.Select(r.caps)+" WHERE product_id = ? ORDER BY created_at DESC, id DESC LIMIT 1", productID)
}

// UpdateQuantity persiste el saldo del lote en la forma disponible.
func (r *LotRepo) UpdateQuantity(ctx context.Context, lot *entity.Lot) error {
	query, args, err := lotsql.UpdateQuantity(r.caps, lot)
	if err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

// SetActive activa o desactiva el lote y fija updated_at en now.
func (r *LotRepo) SetActive(ctx context.Context, id string, active bool, reason string, now time.Time) error {
	query, args := lotsql.SetActive(r.caps, id, active, reason, now)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set lot active: %w", err)
	}
	return nil
}

func (r *LotRepo) get(ctx context.Context, query string, args ...any) (*entity.Lot, error) {
	var row lotsql.Row
	err := r.q.QueryRowxContext(ctx, query, args...).Scan(row.Dest(r.caps)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return row.Lot(r.caps)
}

func (r *LotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var lots []*entity.Lot
	for rows.Next() {
		var row lotsql.Row
		if err := rows.Scan(row.Dest(r.caps)...); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lot, err := row.Lot(r.caps)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}
