package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// QueryUseCase lecturas del libro: lotes, historial, stock bajo, vencimientos y stock por producto.
type QueryUseCase struct {
	ledger *Ledger
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(ledger *Ledger) *QueryUseCase {
	return &QueryUseCase{ledger: ledger}
}

// ListLots lista los lotes de un producto en orden FIFO.
func (uc *QueryUseCase) ListLots(ctx context.Context, productID string, includeInactive bool) ([]dto.LotDTO, error) {
	var out []dto.LotDTO
	err := uc.ledger.view(ctx, func(r TxRepos, _ *schema.Capabilities) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		lots, err := r.Lots.ListByProduct(ctx, productID, includeInactive)
		if err != nil {
			return err
		}
		dominv.SortFIFO(lots)
		out = make([]dto.LotDTO, 0, len(lots))
		for _, l := range lots {
			out = append(out, toLotDTO(l))
		}
		return nil
	})
	return out, err
}

// LotHistory devuelve el historial de un lote, más reciente primero.
func (uc *QueryUseCase) LotHistory(ctx context.Context, lotID string, page dto.PageRequest) ([]dto.HistoryEntryDTO, error) {
	page.Normalize()
	var out []dto.HistoryEntryDTO
	err := uc.ledger.view(ctx, func(r TxRepos, _ *schema.Capabilities) error {
		lot, err := r.Lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
		}
		entries, err := r.History.ListByLot(ctx, lotID, page.Limit, page.Offset)
		if err != nil {
			return err
		}
		out = make([]dto.HistoryEntryDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, dto.HistoryEntryDTO{
				ID:            e.ID,
				TransactionID: e.TransactionID,
				LotID:         e.LotID,
				ProductID:     e.ProductID,
				Action:        e.Action,
				Units:         e.Units,
				Detail:        e.Detail,
				CreatedAt:     e.CreatedAt,
				CreatedBy:     e.CreatedBy,
			})
		}
		return nil
	})
	return out, err
}

// ExpiringLots lotes activos con saldo que vencen dentro de days días (incluye vencidos).
func (uc *QueryUseCase) ExpiringLots(ctx context.Context, days int) ([]dto.ExpiringLotDTO, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days debe ser positivo", domain.ErrValidation)
	}
	now := uc.ledger.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	before := today.AddDate(0, 0, days)

	var out []dto.ExpiringLotDTO
	err := uc.ledger.view(ctx, func(r TxRepos, _ *schema.Capabilities) error {
		lots, err := r.Lots.ListExpiring(ctx, before)
		if err != nil {
			return err
		}
		dominv.SortFIFO(lots)
		out = make([]dto.ExpiringLotDTO, 0, len(lots))
		for _, l := range lots {
			if l.ExpirationDate == nil {
				continue
			}
			out = append(out, dto.ExpiringLotDTO{
				LotDTO:       toLotDTO(l),
				DaysToExpire: int(l.ExpirationDate.Sub(today).Hours() / 24),
			})
		}
		return nil
	})
	return out, err
}

// ProductStock devuelve el stock agregado del producto; usa la caché de Redis si está configurada.
func (uc *QueryUseCase) ProductStock(ctx context.Context, productID string) (*dto.ProductStockDTO, error) {
	seen := uc.ledger.gen.Load()
	if c := uc.ledger.cache; c != nil {
		cached, err := c.GetProductStock(ctx, productID)
		if err != nil {
			uc.ledger.log.Warn().Err(err).Str("product_id", productID).Msg("lectura de caché de stock fallida")
		} else if cached != nil {
			return cached, nil
		}
	}

	var out *dto.ProductStockDTO
	err := uc.ledger.view(ctx, func(r TxRepos, _ *schema.Capabilities) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		lots, err := r.Lots.ListByProduct(ctx, productID, false)
		if err != nil {
			return err
		}
		out = &dto.ProductStockDTO{
			ProductID:       p.ID,
			Code:            p.Code,
			Name:            p.Name,
			StockActual:     p.StockActual,
			MinStock:        p.MinStock,
			ActiveLots:      len(lots),
			AverageUnitCost: dominv.WeightedUnitCost(lots),
			BelowMinimum:    p.BelowMinimum(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.ledger.cache != nil {
		uc.ledger.fillCache(ctx, out, seen)
	}
	return out, nil
}

// fillCache guarda el stock leído salvo que un commit haya pasado desde seen. Si el commit
// llega mientras se escribe, la entrada recién guardada se borra.
func (l *Ledger) fillCache(ctx context.Context, stock *dto.ProductStockDTO, seen uint64) {
	if l.gen.Load() != seen {
		return
	}
	if err := l.cache.SetProductStock(ctx, stock); err != nil {
		l.log.Warn().Err(err).Str("product_id", stock.ProductID).Msg("escritura de caché de stock fallida")
		return
	}
	if l.gen.Load() != seen {
		if err := l.cache.Invalidate(ctx, stock.ProductID); err != nil {
			l.log.Warn().Err(err).Str("product_id", stock.ProductID).Msg("no se pudo descartar stock obsoleto de la caché")
		}
	}
}

func toLotDTO(l *entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:                 l.ID,
		ProductID:          l.ProductID,
		Code:               l.Code,
		ExpirationDate:     l.ExpirationDate,
		Units:              l.Units,
		UnitFactor:         l.Factor,
		Packages:           l.Packages(),
		LooseUnits:         l.LooseUnits(),
		CostPrice:          l.CostPrice,
		SalePrice:          l.SalePrice,
		DiscountPct:        l.DiscountPct,
		TaxRate:            l.TaxRate,
		Active:             l.Active,
		DeactivationReason: l.DeactivationReason,
	}
}
