package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleLineColumns = `id, sale_id, product_id, lot_id, mode, quantity, units_sold, unit_price, subtotal, discount, tax, total, created_at`

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, subtotal, discount_total, tax_total, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Subtotal, s.DiscountTotal, s.TaxTotal, s.Total, s.CreatedAt, s.CreatedBy); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	query := `INSERT INTO sale_lines (` + saleLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.SaleID, l.ProductID, l.LotID, string(l.Mode), l.Quantity, l.UnitsSold,
		l.UnitPrice, l.Subtotal, l.Discount, l.Tax, l.Total, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, subtotal, discount_total, tax_total, total, created_at, created_by
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Subtotal, &s.DiscountTotal, &s.TaxTotal, &s.Total, &s.CreatedAt, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLineForUpdate obtiene y bloquea una línea de venta.
func (r *SaleRepo) GetLineForUpdate(ctx context.Context, id string) (*entity.SaleLine, error) {
	return r.getLine(ctx, `SELECT `+saleLineColumns+` FROM sale_lines WHERE id = $1 FOR UPDATE`, id)
}

// FindLineForUpdate primera línea de la venta para producto + lote, bloqueada.
func (r *SaleRepo) FindLineForUpdate(ctx context.Context, saleID, productID, lotID string) (*entity.SaleLine, error) {
	query := `SELECT ` + saleLineColumns + ` FROM sale_lines
		WHERE sale_id = $1 AND product_id = $2 AND lot_id = $3
		ORDER BY created_at, id LIMIT 1 FOR UPDATE`
	return r.getLine(ctx, query, saleID, productID, lotID)
}

// ListLines líneas de una venta.
func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleLineColumns+` FROM sale_lines WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		l, err := scanSaleLine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *SaleRepo) getLine(ctx context.Context, query string, args ...any) (*entity.SaleLine, error) {
	l, err := scanSaleLine(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func scanSaleLine(row pgx.Row) (*entity.SaleLine, error) {
	var l entity.SaleLine
	var mode string
	err := row.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.LotID, &mode, &l.Quantity, &l.UnitsSold,
		&l.UnitPrice, &l.Subtotal, &l.Discount, &l.Tax, &l.Total, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan sale line: %w", err)
	}
	l.Mode = quantity.Mode(mode)
	return &l, nil
}
