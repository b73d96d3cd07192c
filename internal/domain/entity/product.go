package entity

import "time"

// Product representa un medicamento o artículo del catálogo.
// StockActual es la suma denormalizada de las unidades de sus lotes activos; solo la modifica
// el orquestador de movimientos mediante deltas relativos.
type Product struct {
	ID          string
	Code        string // código interno o de barras
	Name        string
	MinStock    int64 // umbral de stock mínimo (unidades)
	StockActual int64 // unidades mínimas
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum indica si el stock agregado está por debajo del umbral.
func (p *Product) BelowMinimum() bool {
	return p.MinStock > 0 && p.StockActual < p.MinStock
}
