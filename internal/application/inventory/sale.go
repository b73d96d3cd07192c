package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// SaleUseCase registra ventas de punto de venta. Los importes se calculan contra el lote bloqueado.
type SaleUseCase struct {
	ledger *Ledger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(ledger *Ledger) *SaleUseCase {
	return &SaleUseCase{ledger: ledger}
}

// Sell descuenta todas las líneas o ninguna. Una línea con lote consume ese lote; sin lote
// (solo modo unidad) se asigna por FIFO y puede partirse en una línea por lote.
func (uc *SaleUseCase) Sell(ctx context.Context, actor string, in dto.SaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene líneas", domain.ErrValidation)
	}
	modes := make([]quantity.Mode, len(in.Lines))
	for i, ln := range in.Lines {
		mode, err := quantity.ParseMode(ln.Mode)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		switch {
		case ln.ProductID == "":
			return nil, fmt.Errorf("línea %d: %w: product_id requerido", i+1, domain.ErrValidation)
		case ln.Quantity <= 0:
			return nil, fmt.Errorf("línea %d: %w: la cantidad debe ser positiva", i+1, domain.ErrValidation)
		case ln.LotID == "" && mode == quantity.ModePackage:
			return nil, fmt.Errorf("línea %d: %w: la venta por empaque requiere lote", i+1, domain.ErrValidation)
		}
		modes[i] = mode
	}

	saleID := uuid.New().String()
	sale := &entity.Sale{ID: saleID}
	var lines []*entity.SaleLine

	m, err := uc.ledger.execute(ctx, OpSale, entity.HistoryActionSale, actor, func(m *mutation) error {
		for i, ln := range in.Lines {
			if _, err := m.product(ln.ProductID); err != nil {
				return err
			}
			if ln.LotID != "" {
				line, err := uc.sellFromLot(m, saleID, ln, modes[i])
				if err != nil {
					return err
				}
				lines = append(lines, line)
				continue
			}
			takes, err := m.allocate(ln.ProductID, ln.Quantity, fmt.Sprintf("venta %s", saleID))
			if err != nil {
				return err
			}
			for _, t := range takes {
				lines = append(lines, newSaleLine(saleID, t.Lot, quantity.ModeUnit, t.Units, t.Units, m))
			}
		}

		sale.Subtotal, sale.DiscountTotal, sale.TaxTotal, sale.Total = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		for _, l := range lines {
			sale.Subtotal = sale.Subtotal.Add(l.Subtotal)
			sale.DiscountTotal = sale.DiscountTotal.Add(l.Discount)
			sale.TaxTotal = sale.TaxTotal.Add(l.Tax)
			sale.Total = sale.Total.Add(l.Total)
		}
		sale.CreatedAt = m.now
		sale.CreatedBy = actor
		if err := m.repos.Sales.Create(m.ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			if err := m.repos.Sales.CreateLine(m.ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines, m.txID), nil
}

func (uc *SaleUseCase) sellFromLot(m *mutation, saleID string, ln dto.SaleLineRequest, mode quantity.Mode) (*entity.SaleLine, error) {
	lot, err := m.lockLot(ln.LotID)
	if err != nil {
		return nil, err
	}
	if lot.ProductID != ln.ProductID {
		return nil, fmt.Errorf("%w: el lote %s no pertenece al producto %s", domain.ErrValidation, lot.ID, ln.ProductID)
	}
	units, err := quantity.UnitsFor(ln.Quantity, mode, lot.Factor)
	if err != nil {
		return nil, err
	}
	if err := m.withdraw(lot, units, fmt.Sprintf("venta %s", saleID)); err != nil {
		return nil, err
	}
	return newSaleLine(saleID, lot, mode, ln.Quantity, units, m), nil
}

func newSaleLine(saleID string, lot *entity.Lot, mode quantity.Mode, qty, units int64, m *mutation) *entity.SaleLine {
	p := dominv.PriceLine(lot, qty, mode)
	return &entity.SaleLine{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		ProductID: lot.ProductID,
		LotID:     lot.ID,
		Mode:      mode,
		Quantity:  qty,
		UnitsSold: units,
		UnitPrice: p.UnitPrice,
		Subtotal:  p.Subtotal,
		Discount:  p.Discount,
		Tax:       p.Tax,
		Total:     p.Total,
		CreatedAt: m.now,
	}
}

func toSaleResponse(s *entity.Sale, lines []*entity.SaleLine, txID string) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		TransactionID: txID,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		Lines:         make([]dto.SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Mode:      string(l.Mode),
			Quantity:  l.Quantity,
			UnitsSold: l.UnitsSold,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
			Discount:  l.Discount,
			Tax:       l.Tax,
			Total:     l.Total,
		})
	}
	return out
}
