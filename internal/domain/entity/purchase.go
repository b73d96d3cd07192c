package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder es la cabecera de una recepción de compra.
type PurchaseOrder struct {
	ID            string
	Supplier      string
	InvoiceNumber string
	TotalCost     decimal.Decimal // Σ UnitCost × Packages
	CreatedAt     time.Time
	CreatedBy     string
}

// PurchaseLine crea un lote nuevo o reabastece uno existente con las mismas condiciones.
type PurchaseLine struct {
	ID          string
	PurchaseID  string
	ProductID   string
	LotID       string
	CreatedLot  bool
	Packages    int64
	UnitFactor  int64
	UnitCost    decimal.Decimal
	SalePrice   decimal.Decimal
	TaxRate     decimal.Decimal
	DiscountPct decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}
