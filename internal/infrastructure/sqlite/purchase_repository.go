package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo persiste recepciones de compra sobre SQLite.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar db o tx.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera de la compra.
func (r *PurchaseRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO purchase_orders (id, supplier, invoice_number, total_cost, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.Supplier, o.InvoiceNumber, o.TotalCost, o.CreatedAt, o.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de compra.
func (r *PurchaseRepo) CreateLine(ctx context.Context, l *entity.PurchaseLine) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO purchase_lines (id, purchase_id, product_id, lot_id, created_lot, packages, unit_factor,
			unit_cost, sale_price, tax_rate, discount_pct, subtotal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.PurchaseID, l.ProductID, l.LotID, l.CreatedLot, l.Packages, l.UnitFactor,
		l.UnitCost, l.SalePrice, l.TaxRate, l.DiscountPct, l.Subtotal, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}
