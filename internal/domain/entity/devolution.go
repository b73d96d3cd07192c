package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Devolution es la cabecera de una devolución sobre una venta.
type Devolution struct {
	ID          string
	SaleID      string
	Reason      string
	RefundTotal decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
}

// DevolutionLine devuelve unidades de una línea de venta a su lote de origen.
type DevolutionLine struct {
	ID           string
	DevolutionID string
	SaleLineID   string
	ProductID    string
	LotID        string
	Units        int64
	Refund       decimal.Decimal
	CreatedAt    time.Time
}
