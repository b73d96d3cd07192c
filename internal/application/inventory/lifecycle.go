package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// LotLifecycleUseCase desactiva y reactiva lotes. Nunca ocurre de forma automática.
type LotLifecycleUseCase struct {
	ledger *Ledger
}

// NewLotLifecycleUseCase construye el caso de uso.
func NewLotLifecycleUseCase(ledger *Ledger) *LotLifecycleUseCase {
	return &LotLifecycleUseCase{ledger: ledger}
}

// Deactivate exige motivo. El saldo del lote se conserva y sale del agregado del producto.
func (uc *LotLifecycleUseCase) Deactivate(ctx context.Context, actor, lotID, reason string) (*dto.LotStateResponse, error) {
	reason = strings.TrimSpace(reason)
	if lotID == "" {
		return nil, fmt.Errorf("%w: lot_id requerido", domain.ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de la baja es obligatorio", domain.ErrValidation)
	}
	return uc.transition(ctx, OpDeactivation, entity.HistoryActionDeactivation, actor, lotID, func(m *mutation, lot *entity.Lot) error {
		return m.deactivate(lot, reason)
	})
}

// Reactivate vuelve a sumar al agregado el saldo almacenado del lote, sin recalcularlo.
func (uc *LotLifecycleUseCase) Reactivate(ctx context.Context, actor, lotID string) (*dto.LotStateResponse, error) {
	if lotID == "" {
		return nil, fmt.Errorf("%w: lot_id requerido", domain.ErrValidation)
	}
	return uc.transition(ctx, OpReactivation, entity.HistoryActionReactivation, actor, lotID, func(m *mutation, lot *entity.Lot) error {
		return m.reactivate(lot)
	})
}

func (uc *LotLifecycleUseCase) transition(ctx context.Context, op, action, actor, lotID string, apply func(*mutation, *entity.Lot) error) (*dto.LotStateResponse, error) {
	var lot *entity.Lot
	m, err := uc.ledger.execute(ctx, op, action, actor, func(m *mutation) error {
		var err error
		if lot, err = m.lockLot(lotID); err != nil {
			return err
		}
		return apply(m, lot)
	})
	if err != nil {
		return nil, err
	}
	return &dto.LotStateResponse{
		TransactionID: m.txID,
		LotID:         lot.ID,
		Active:        lot.Active,
		Units:         lot.Units,
		StockActual:   m.stock[lot.ProductID],
	}, nil
}
