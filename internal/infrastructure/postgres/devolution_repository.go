package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.DevolutionRepository = (*DevolutionRepo)(nil)

// DevolutionRepo persiste devoluciones sobre PostgreSQL.
type DevolutionRepo struct {
	q Querier
}

// NewDevolutionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDevolutionRepository(q Querier) *DevolutionRepo {
	return &DevolutionRepo{q: q}
}

// Create inserta la cabecera de la devolución.
func (r *DevolutionRepo) Create(ctx context.Context, d *entity.Devolution) error {
	query := `
		INSERT INTO devolutions (id, sale_id, reason, refund_total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, d.ID, d.SaleID, d.Reason, d.RefundTotal, d.CreatedAt, d.CreatedBy); err != nil {
		return fmt.Errorf("insert devolution: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de devolución.
func (r *DevolutionRepo) CreateLine(ctx context.Context, l *entity.DevolutionLine) error {
	query := `
		INSERT INTO devolution_lines (id, devolution_id, sale_line_id, product_id, lot_id, units, refund, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.DevolutionID, l.SaleLineID, l.ProductID, l.LotID, l.Units, l.Refund, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert devolution line: %w", err)
	}
	return nil
}

// SumReturnedUnits unidades ya devueltas contra la línea de venta.
func (r *DevolutionRepo) SumReturnedUnits(ctx context.Context, saleLineID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(units), 0)::BIGINT FROM devolution_lines WHERE sale_line_id = $1`, saleLineID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum returned units: %w", err)
	}
	return total, nil
}
