package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// LowStock devuelve los productos bajo su stock mínimo con la cantidad sugerida de pedido
// y un ranking de prioridad por déficit relativo.
func (uc *QueryUseCase) LowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	suggestions := []dto.LowStockDTO{}
	err := uc.ledger.view(ctx, func(r TxRepos, _ *schema.Capabilities) error {
		// 1. Productos por debajo del mínimo
		products, err := r.Products.ListBelowMinimum(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			// 2. Costo promedio ponderado de los lotes activos
			lots, err := r.Lots.ListByProduct(ctx, p.ID, false)
			if err != nil {
				return err
			}
			unitCost := dominv.WeightedUnitCost(lots)

			// 3. Ideal = mínimo * 1.5 (redondeado hacia arriba), sugerido = ideal - actual
			ideal := (p.MinStock*3 + 1) / 2
			suggested := ideal - p.StockActual
			if suggested < 0 {
				suggested = 0
			}
			suggestions = append(suggestions, dto.LowStockDTO{
				ProductID:          p.ID,
				Code:               p.Code,
				ProductName:        p.Name,
				CurrentStock:       p.StockActual,
				MinStock:           p.MinStock,
				IdealStock:         ideal,
				SuggestedOrderQty:  suggested,
				UnitCost:           unitCost,
				EstimatedOrderCost: unitCost.Mul(decimal.NewFromInt(suggested)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Ordenar: menor cobertura (actual/mínimo) primero, luego mayor déficit absoluto.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		// a.Current/a.Min < b.Current/b.Min sin división
		ca, cb := a.CurrentStock*b.MinStock, b.CurrentStock*a.MinStock
		if ca != cb {
			return ca < cb
		}
		return a.MinStock-a.CurrentStock > b.MinStock-b.CurrentStock
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
