package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// SaleLine es una línea de venta sobre un lote concreto. Los importes se calculan
// siempre contra el registro del lote, nunca con valores enviados por el cliente.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	LotID     string
	Mode      quantity.Mode
	Quantity  int64 // en Mode
	UnitsSold int64 // unidades mínimas
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	CreatedAt time.Time
}
