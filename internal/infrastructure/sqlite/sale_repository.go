package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre SQLite.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar db o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

type saleRow struct {
	ID            string          `db:"id"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	DiscountTotal decimal.Decimal `db:"discount_total"`
	TaxTotal      decimal.Decimal `db:"tax_total"`
	Total         decimal.Decimal `db:"total"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

type saleLineRow struct {
	ID        string          `db:"id"`
	SaleID    string          `db:"sale_id"`
	ProductID string          `db:"product_id"`
	LotID     string          `db:"lot_id"`
	Mode      string          `db:"mode"`
	Quantity  int64           `db:"quantity"`
	UnitsSold int64           `db:"units_sold"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal"`
	Discount  decimal.Decimal `db:"discount"`
	Tax       decimal.Decimal `db:"tax"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

func (l saleLineRow) toEntity() *entity.SaleLine {
	return &entity.SaleLine{
		ID: l.ID, SaleID: l.SaleID, ProductID: l.ProductID, LotID: l.LotID, Mode: quantity.Mode(l.Mode),
		Quantity: l.Quantity, UnitsSold: l.UnitsSold, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		Discount: l.Discount, Tax: l.Tax, Total: l.Total, CreatedAt: l.CreatedAt,
	}
}

const saleLineColumns = `id, sale_id, product_id, lot_id, mode, quantity, units_sold, unit_price, subtotal, discount, tax, total, created_at`

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sales (id, subtotal, discount_total, tax_total, total, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Subtotal, s.DiscountTotal, s.TaxTotal, s.Total, s.CreatedAt, s.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO sale_lines (`+saleLineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SaleID, l.ProductID, l.LotID, string(l.Mode), l.Quantity, l.UnitsSold,
		l.UnitPrice, l.Subtotal, l.Discount, l.Tax, l.Total, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s saleRow
	err := sqlx.GetContext(ctx, r.q, &s, `
		SELECT id, subtotal, discount_total, tax_total, total, created_at, created_by
		FROM sales WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &entity.Sale{
		ID: s.ID, Subtotal: s.Subtotal, DiscountTotal: s.DiscountTotal, TaxTotal: s.TaxTotal,
		Total: s.Total, CreatedAt: s.CreatedAt, CreatedBy: s.CreatedBy,
	}, nil
}

// GetLineForUpdate obtiene una línea de venta.
func (r *SaleRepo) GetLineForUpdate(ctx context.Context, id string) (*entity.SaleLine, error) {
	return r.getLine(ctx, `SELECT `+saleLineColumns+` FROM sale_lines WHERE id = ?`, id)
}

// FindLineForUpdate primera línea de la venta para producto + lote.
func (r *SaleRepo) FindLineForUpdate(ctx context.Context, saleID, productID, lotID string) (*entity.SaleLine, error) {
	return r.getLine(ctx, `SELECT `+saleLineColumns+` FROM sale_lines
		WHERE sale_id = ? AND product_id = ? AND lot_id = ?
		ORDER BY created_at, id LIMIT 1`, saleID, productID, lotID)
}

// ListLines líneas de una venta.
func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	var rows []saleLineRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+saleLineColumns+` FROM sale_lines WHERE sale_id = ? ORDER BY created_at, id`, saleID); err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	list := make([]*entity.SaleLine, 0, len(rows))
	for _, l := range rows {
		list = append(list, l.toEntity())
	}
	return list, nil
}

func (r *SaleRepo) getLine(ctx context.Context, query string, args ...any) (*entity.SaleLine, error) {
	var l saleLineRow
	if err := sqlx.GetContext(ctx, r.q, &l, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale line: %w", err)
	}
	return l.toEntity(), nil
}
