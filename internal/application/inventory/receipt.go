package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

const dateLayout = "2006-01-02"

// ReceiptUseCase registra recepciones de compra: cada línea crea un lote o reabastece uno
// existente con las mismas condiciones comerciales.
type ReceiptUseCase struct {
	ledger *Ledger
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(ledger *Ledger) *ReceiptUseCase {
	return &ReceiptUseCase{ledger: ledger}
}

// Receive valida la compra completa y la aplica en una sola transacción.
func (uc *ReceiptUseCase) Receive(ctx context.Context, actor string, in dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	if strings.TrimSpace(in.Supplier) == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrValidation)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la compra no tiene líneas", domain.ErrValidation)
	}
	expirations := make([]*time.Time, len(in.Lines))
	totalCost := decimal.Zero
	for i, ln := range in.Lines {
		if err := validatePurchaseLine(ln); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		exp, err := parseDate(ln.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		expirations[i] = exp
		totalCost = totalCost.Add(dominv.PurchaseLineCost(ln.UnitCost, ln.Packages))
	}

	orderID := uuid.New().String()
	results := make([]dto.PurchaseLineResult, 0, len(in.Lines))

	m, err := uc.ledger.execute(ctx, OpReceipt, entity.HistoryActionReceipt, actor, func(m *mutation) error {
		order := &entity.PurchaseOrder{
			ID:            orderID,
			Supplier:      strings.TrimSpace(in.Supplier),
			InvoiceNumber: in.InvoiceNumber,
			TotalCost:     totalCost,
			CreatedAt:     m.now,
			CreatedBy:     actor,
		}
		if err := m.repos.Purchases.Create(m.ctx, order); err != nil {
			return err
		}
		for i, ln := range in.Lines {
			if _, err := m.product(ln.ProductID); err != nil {
				return err
			}
			factor := quantity.NormalizeFactor(ln.UnitFactor)
			units := ln.Packages * factor
			detail := fmt.Sprintf("compra %s: %d empaques x %d", orderID, ln.Packages, factor)
			if in.InvoiceNumber != "" {
				detail = fmt.Sprintf("compra %s (factura %s): %d empaques x %d", orderID, in.InvoiceNumber, ln.Packages, factor)
			}

			lot, created, err := uc.applyLine(m, ln, expirations[i], factor, units, detail)
			if err != nil {
				return err
			}
			line := &entity.PurchaseLine{
				ID:          uuid.New().String(),
				PurchaseID:  orderID,
				ProductID:   ln.ProductID,
				LotID:       lot.ID,
				CreatedLot:  created,
				Packages:    ln.Packages,
				UnitFactor:  factor,
				UnitCost:    ln.UnitCost,
				SalePrice:   ln.SalePrice,
				TaxRate:     ln.TaxRate,
				DiscountPct: ln.DiscountPct,
				Subtotal:    dominv.PurchaseLineCost(ln.UnitCost, ln.Packages),
				CreatedAt:   m.now,
			}
			if err := m.repos.Purchases.CreateLine(m.ctx, line); err != nil {
				return err
			}
			results = append(results, dto.PurchaseLineResult{
				ProductID:  ln.ProductID,
				LotID:      lot.ID,
				CreatedLot: created,
				UnitsAdded: units,
				Subtotal:   line.Subtotal,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].StockActual = m.stock[results[i].ProductID]
	}
	return &dto.PurchaseResponse{ID: orderID, TransactionID: m.txID, TotalCost: totalCost, Lines: results}, nil
}

// applyLine reabastece el lote indicado o crea uno nuevo. Costo y precio se comparan y
// guardan en la unidad del lote: por unidad mínima cuando el esquema no guarda el factor.
func (uc *ReceiptUseCase) applyLine(m *mutation, ln dto.PurchaseLineRequest, exp *time.Time, factor, units int64, detail string) (*entity.Lot, bool, error) {
	cost := m.storedPrice(ln.UnitCost, factor)
	price := m.storedPrice(ln.SalePrice, factor)
	if ln.LotID == "" {
		lot := &entity.Lot{
			ProductID:      ln.ProductID,
			Code:           ln.LotCode,
			ExpirationDate: exp,
			CostPrice:      cost,
			SalePrice:      price,
			DiscountPct:    ln.DiscountPct,
			TaxRate:        ln.TaxRate,
			Units:          units,
			Factor:         m.storedFactor(factor),
			Active:         true,
		}
		if err := m.createLot(lot, detail); err != nil {
			return nil, false, err
		}
		return lot, true, nil
	}

	lot, err := m.lockLot(ln.LotID)
	if err != nil {
		return nil, false, err
	}
	switch {
	case lot.ProductID != ln.ProductID:
		return nil, false, fmt.Errorf("%w: el lote %s no pertenece al producto %s", domain.ErrValidation, lot.ID, ln.ProductID)
	case !lot.Active:
		return nil, false, fmt.Errorf("%w: el lote %s está inactivo", domain.ErrValidation, lot.ID)
	case !lot.SameTerms(cost, price, ln.TaxRate, ln.DiscountPct):
		return nil, false, fmt.Errorf("%w: las condiciones de costo, precio, impuesto o descuento no coinciden con el lote %s", domain.ErrValidation, lot.ID)
	case m.caps.HasUnitFactorCounter && quantity.NormalizeFactor(lot.Factor) != factor:
		return nil, false, fmt.Errorf("%w: el factor por empaque no coincide con el lote %s", domain.ErrValidation, lot.ID)
	case exp != nil && (lot.ExpirationDate == nil || !lot.ExpirationDate.Equal(*exp)):
		return nil, false, fmt.Errorf("%w: la fecha de vencimiento no coincide con el lote %s", domain.ErrValidation, lot.ID)
	}
	if err := m.deposit(lot, units, detail); err != nil {
		return nil, false, err
	}
	return lot, false, nil
}

func validatePurchaseLine(ln dto.PurchaseLineRequest) error {
	switch {
	case ln.ProductID == "":
		return fmt.Errorf("%w: product_id requerido", domain.ErrValidation)
	case ln.Packages <= 0:
		return fmt.Errorf("%w: la cantidad de empaques debe ser positiva", domain.ErrValidation)
	case ln.UnitFactor < 0:
		return fmt.Errorf("%w: factor por empaque negativo", domain.ErrValidation)
	case ln.UnitCost.IsNegative() || ln.SalePrice.IsNegative() || ln.TaxRate.IsNegative() || ln.DiscountPct.IsNegative():
		return fmt.Errorf("%w: costo, precio, impuesto y descuento no pueden ser negativos", domain.ErrValidation)
	case ln.DiscountPct.GreaterThan(decimal.NewFromInt(100)):
		return fmt.Errorf("%w: descuento mayor a 100%%", domain.ErrValidation)
	case ln.TaxRate.GreaterThan(decimal.NewFromInt(100)):
		return fmt.Errorf("%w: impuesto mayor a 100%%", domain.ErrValidation)
	}
	return nil
}

// parseDate acepta vacío (sin vencimiento) o YYYY-MM-DD.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de vencimiento %q (formato YYYY-MM-DD)", domain.ErrValidation, s)
	}
	return &t, nil
}
