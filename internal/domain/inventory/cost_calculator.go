package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// PurchaseLineCost costo de una línea de compra: costo por empaque × empaques recibidos.
func PurchaseLineCost(unitCost decimal.Decimal, packages int64) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(packages))
}

// UnitCost costo por unidad mínima de un lote.
func UnitCost(lot *entity.Lot) decimal.Decimal {
	return lot.CostPrice.Div(decimal.NewFromInt(quantity.NormalizeFactor(lot.Factor)))
}

// WeightedUnitCost implementa el costo promedio ponderado por unidad sobre los lotes activos.
// Costo = Σ(unidades_i × costoUnidad_i) / Σ unidades_i
func WeightedUnitCost(lots []*entity.Lot) decimal.Decimal {
	var units int64
	num := decimal.Zero
	for _, l := range lots {
		if !l.Active || l.Units <= 0 {
			continue
		}
		units += l.Units
		num = num.Add(UnitCost(l).Mul(decimal.NewFromInt(l.Units)))
	}
	if units == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(units)).Round(2)
}
