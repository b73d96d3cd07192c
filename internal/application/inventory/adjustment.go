package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// AdjustmentUseCase aplica ajustes manuales de stock en unidades mínimas.
type AdjustmentUseCase struct {
	ledger *Ledger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(ledger *Ledger) *AdjustmentUseCase {
	return &AdjustmentUseCase{ledger: ledger}
}

// Adjust con delta positivo crea un lote nuevo (precios del lote más reciente si no se indican);
// con delta negativo consume por FIFO y falla completo si no alcanza.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, actor string, in dto.AdjustmentRequest) (*dto.AdjustmentResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	switch {
	case in.ProductID == "":
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrValidation)
	case in.Delta == 0:
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrValidation)
	case reason == "":
		return nil, fmt.Errorf("%w: el motivo del ajuste es obligatorio", domain.ErrValidation)
	case in.UnitFactor < 0:
		return nil, fmt.Errorf("%w: factor por empaque negativo", domain.ErrValidation)
	case (in.CostPrice != nil && in.CostPrice.IsNegative()) || (in.SalePrice != nil && in.SalePrice.IsNegative()):
		return nil, fmt.Errorf("%w: precios negativos", domain.ErrValidation)
	}
	exp, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}

	var moved []dto.LotMovementDTO
	detail := "ajuste: " + reason

	m, err := uc.ledger.execute(ctx, OpAdjustment, entity.HistoryActionAdjustment, actor, func(m *mutation) error {
		if _, err := m.product(in.ProductID); err != nil {
			return err
		}
		if in.Delta < 0 {
			takes, err := m.allocate(in.ProductID, -in.Delta, detail)
			if err != nil {
				return err
			}
			for _, t := range takes {
				moved = append(moved, dto.LotMovementDTO{LotID: t.Lot.ID, Units: -t.Units})
			}
			return nil
		}

		lot := &entity.Lot{
			ProductID:      in.ProductID,
			Code:           in.LotCode,
			ExpirationDate: exp,
			CostPrice:      decimal.Zero,
			SalePrice:      decimal.Zero,
			DiscountPct:    decimal.Zero,
			TaxRate:        decimal.Zero,
			Units:          in.Delta,
			Factor:         m.storedFactor(in.UnitFactor),
			Active:         true,
		}
		newest, err := m.repos.Lots.GetNewestByProduct(m.ctx, in.ProductID)
		if err != nil {
			return err
		}
		if newest != nil {
			lot.CostPrice = newest.CostPrice
			lot.SalePrice = newest.SalePrice
			lot.DiscountPct = newest.DiscountPct
			lot.TaxRate = newest.TaxRate
		}
		if in.CostPrice != nil {
			lot.CostPrice = m.storedPrice(*in.CostPrice, in.UnitFactor)
		}
		if in.SalePrice != nil {
			lot.SalePrice = m.storedPrice(*in.SalePrice, in.UnitFactor)
		}
		if lot.Code == "" {
			lot.Code = "AJ-" + m.txID[:8]
		}
		if err := m.createLot(lot, detail); err != nil {
			return err
		}
		moved = append(moved, dto.LotMovementDTO{LotID: lot.ID, Units: lot.Units})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentResponse{
		TransactionID: m.txID,
		ProductID:     in.ProductID,
		Delta:         in.Delta,
		StockActual:   m.stock[in.ProductID],
		Lots:          moved,
	}, nil
}
