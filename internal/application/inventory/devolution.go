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

// DevolutionUseCase devuelve unidades vendidas a su lote de origen, limitadas a lo pendiente
// por devolver de cada línea de venta.
type DevolutionUseCase struct {
	ledger *Ledger
}

// NewDevolutionUseCase construye el caso de uso.
func NewDevolutionUseCase(ledger *Ledger) *DevolutionUseCase {
	return &DevolutionUseCase{ledger: ledger}
}

// Return aplica todas las líneas o ninguna. Pendiente = vendidas − Σ devueltas; la línea de venta
// se bloquea antes de leer la suma y el saldo se lleva en memoria entre líneas de la misma solicitud.
func (uc *DevolutionUseCase) Return(ctx context.Context, actor string, in dto.DevolutionRequest) (*dto.DevolutionResponse, error) {
	if in.SaleID == "" {
		return nil, fmt.Errorf("%w: sale_id requerido", domain.ErrValidation)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la devolución no tiene líneas", domain.ErrValidation)
	}
	modes := make([]quantity.Mode, len(in.Lines))
	for i, ln := range in.Lines {
		mode, err := quantity.ParseMode(ln.Mode)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("línea %d: %w: la cantidad debe ser positiva", i+1, domain.ErrValidation)
		}
		if ln.SaleLineID == "" && (ln.ProductID == "" || ln.LotID == "") {
			return nil, fmt.Errorf("línea %d: %w: indique sale_line_id o product_id y lot_id", i+1, domain.ErrValidation)
		}
		modes[i] = mode
	}

	devolution := &entity.Devolution{ID: uuid.New().String(), SaleID: in.SaleID, Reason: in.Reason, RefundTotal: decimal.Zero}
	var lines []*entity.DevolutionLine
	var results []dto.DevolutionLineResponse

	m, err := uc.ledger.execute(ctx, OpDevolution, entity.HistoryActionDevolution, actor, func(m *mutation) error {
		sale, err := m.repos.Sales.GetByID(m.ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.SaleID)
		}

		outstanding := make(map[string]int64) // línea de venta -> pendiente
		for i, ln := range in.Lines {
			saleLine, err := uc.findSaleLine(m, sale.ID, ln)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			pending, seen := outstanding[saleLine.ID]
			if !seen {
				returned, err := m.repos.Devolutions.SumReturnedUnits(m.ctx, saleLine.ID)
				if err != nil {
					return err
				}
				pending = saleLine.UnitsSold - returned
			}

			lot, err := m.lockLot(saleLine.LotID)
			if err != nil {
				return err
			}
			if lot.ProductID != saleLine.ProductID {
				return fmt.Errorf("%w: el lote %s ya no corresponde al producto de la línea %s", domain.ErrInconsistentLotState, lot.ID, saleLine.ID)
			}
			units, err := quantity.UnitsFor(ln.Quantity, modes[i], lot.Factor)
			if err != nil {
				return err
			}
			if units > pending {
				return fmt.Errorf("%w: línea %s pendiente %d, solicitado %d", domain.ErrReturnExceedsOutstanding, saleLine.ID, pending, units)
			}
			if err := m.deposit(lot, units, fmt.Sprintf("devolución %s de venta %s", devolution.ID, sale.ID)); err != nil {
				return err
			}
			pending -= units
			outstanding[saleLine.ID] = pending

			refund := dominv.ProrateRefund(saleLine.Total, units, saleLine.UnitsSold)
			devolution.RefundTotal = devolution.RefundTotal.Add(refund)
			lines = append(lines, &entity.DevolutionLine{
				ID:           uuid.New().String(),
				DevolutionID: devolution.ID,
				SaleLineID:   saleLine.ID,
				ProductID:    saleLine.ProductID,
				LotID:        lot.ID,
				Units:        units,
				Refund:       refund,
				CreatedAt:    m.now,
			})
			results = append(results, dto.DevolutionLineResponse{
				SaleLineID:  saleLine.ID,
				LotID:       lot.ID,
				Units:       units,
				Refund:      refund,
				Outstanding: pending,
			})
		}

		devolution.CreatedAt = m.now
		devolution.CreatedBy = actor
		if err := m.repos.Devolutions.Create(m.ctx, devolution); err != nil {
			return err
		}
		for _, l := range lines {
			if err := m.repos.Devolutions.CreateLine(m.ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.DevolutionResponse{
		ID:            devolution.ID,
		TransactionID: m.txID,
		SaleID:        devolution.SaleID,
		RefundTotal:   devolution.RefundTotal,
		Lines:         results,
	}, nil
}

// findSaleLine resuelve la línea por id o por producto + lote dentro de la venta, bloqueándola.
func (uc *DevolutionUseCase) findSaleLine(m *mutation, saleID string, ln dto.DevolutionLineRequest) (*entity.SaleLine, error) {
	var (
		line *entity.SaleLine
		err  error
	)
	if ln.SaleLineID != "" {
		line, err = m.repos.Sales.GetLineForUpdate(m.ctx, ln.SaleLineID)
	} else {
		line, err = m.repos.Sales.FindLineForUpdate(m.ctx, saleID, ln.ProductID, ln.LotID)
	}
	if err != nil {
		return nil, err
	}
	if line == nil || line.SaleID != saleID {
		return nil, fmt.Errorf("%w: línea de venta no encontrada en la venta %s", domain.ErrNotFound, saleID)
	}
	if ln.LotID != "" && ln.LotID != line.LotID {
		return nil, fmt.Errorf("%w: el lote %s no coincide con el lote %s de la línea de venta", domain.ErrValidation, ln.LotID, line.LotID)
	}
	if ln.ProductID != "" && ln.ProductID != line.ProductID {
		return nil, fmt.Errorf("%w: el producto %s no coincide con la línea de venta", domain.ErrValidation, ln.ProductID)
	}
	return line, nil
}
