package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest body para POST /api/purchases.
type PurchaseRequest struct {
	Supplier      string                `json:"supplier" validate:"required"`
	InvoiceNumber string                `json:"invoice_number"`
	Lines         []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineRequest crea un lote nuevo o, con LotID, reabastece uno existente
// (solo si costo, precio, impuesto, descuento y factor coinciden).
type PurchaseLineRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	LotID          string          `json:"lot_id,omitempty"`
	LotCode        string          `json:"lot_code"`
	ExpirationDate string          `json:"expiration_date,omitempty"` // YYYY-MM-DD
	Packages       int64           `json:"packages" validate:"gt=0"`
	UnitFactor     int64           `json:"unit_factor" validate:"gte=0"` // 0 = 1
	UnitCost       decimal.Decimal `json:"unit_cost"`                    // por empaque
	SalePrice      decimal.Decimal `json:"sale_price"`                   // por empaque
	TaxRate        decimal.Decimal `json:"tax_rate"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
}

// PurchaseResponse resultado de una recepción.
type PurchaseResponse struct {
	ID            string               `json:"id"`
	TransactionID string               `json:"transaction_id"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	Lines         []PurchaseLineResult `json:"lines"`
}

// PurchaseLineResult lote creado o actualizado por una línea.
type PurchaseLineResult struct {
	ProductID   string          `json:"product_id"`
	LotID       string          `json:"lot_id"`
	CreatedLot  bool            `json:"created_lot"`
	UnitsAdded  int64           `json:"units_added"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	StockActual int64           `json:"stock_actual"`
}

// SaleRequest body para POST /api/sales.
type SaleRequest struct {
	Lines []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineRequest sin LotID solo se acepta en modo unidad y se asigna por FIFO.
type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	LotID     string `json:"lot_id,omitempty"`
	Mode      string `json:"mode" validate:"omitempty,oneof=package unit"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	TransactionID string             `json:"transaction_id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []SaleLineResponse `json:"lines"`
}

// SaleLineResponse línea con importes calculados contra el lote.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	LotID     string          `json:"lot_id"`
	Mode      string          `json:"mode"`
	Quantity  int64           `json:"quantity"`
	UnitsSold int64           `json:"units_sold"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// DevolutionRequest body para POST /api/devolutions.
type DevolutionRequest struct {
	SaleID string                  `json:"sale_id" validate:"required"`
	Reason string                  `json:"reason"`
	Lines  []DevolutionLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// DevolutionLineRequest identifica la línea por SaleLineID o por ProductID + LotID dentro de la venta.
type DevolutionLineRequest struct {
	SaleLineID string `json:"sale_line_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
	LotID      string `json:"lot_id,omitempty"`
	Mode       string `json:"mode" validate:"omitempty,oneof=package unit"`
	Quantity   int64  `json:"quantity" validate:"gt=0"`
}

// DevolutionResponse devolución aceptada.
type DevolutionResponse struct {
	ID            string                   `json:"id"`
	TransactionID string                   `json:"transaction_id"`
	SaleID        string                   `json:"sale_id"`
	RefundTotal   decimal.Decimal          `json:"refund_total"`
	Lines         []DevolutionLineResponse `json:"lines"`
}

// DevolutionLineResponse unidades devueltas y lo que queda por devolver en la línea.
type DevolutionLineResponse struct {
	SaleLineID  string          `json:"sale_line_id"`
	LotID       string          `json:"lot_id"`
	Units       int64           `json:"units"`
	Refund      decimal.Decimal `json:"refund"`
	Outstanding int64           `json:"outstanding"`
}

// AdjustmentRequest body para POST /api/adjustments. Delta en unidades mínimas:
// positivo crea un lote nuevo, negativo consume por FIFO.
type AdjustmentRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	Delta          int64            `json:"delta" validate:"ne=0"`
	Reason         string           `json:"reason" validate:"required"`
	LotCode        string           `json:"lot_code,omitempty"`
	ExpirationDate string           `json:"expiration_date,omitempty"`
	UnitFactor     int64            `json:"unit_factor,omitempty" validate:"gte=0"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
}

// LotMovementDTO unidades movidas en un lote (negativo = salida).
type LotMovementDTO struct {
	LotID string `json:"lot_id"`
	Units int64  `json:"units"`
}

// AdjustmentResponse resultado de un ajuste.
type AdjustmentResponse struct {
	TransactionID string           `json:"transaction_id"`
	ProductID     string           `json:"product_id"`
	Delta         int64            `json:"delta"`
	StockActual   int64            `json:"stock_actual"`
	Lots          []LotMovementDTO `json:"lots"`
}

// LotStateRequest body para desactivar un lote.
type LotStateRequest struct {
	Reason string `json:"reason"`
}

// LotStateResponse estado del lote tras desactivar/reactivar.
type LotStateResponse struct {
	TransactionID string `json:"transaction_id"`
	LotID         string `json:"lot_id"`
	Active        bool   `json:"active"`
	Units         int64  `json:"units"`
	StockActual   int64  `json:"stock_actual"`
}

// LotDTO lote con su saldo descompuesto en empaques y unidades sueltas.
type LotDTO struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ExpirationDate     *time.Time      `json:"expiration_date,omitempty"`
	Units              int64           `json:"units"`
	UnitFactor         int64           `json:"unit_factor"`
	Packages           int64           `json:"packages"`
	LooseUnits         int64           `json:"loose_units"`
	CostPrice          decimal.Decimal `json:"cost_price"`
	SalePrice          decimal.Decimal `json:"sale_price"`
	DiscountPct        decimal.Decimal `json:"discount_pct"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	Active             bool            `json:"active"`
	DeactivationReason string          `json:"deactivation_reason,omitempty"`
}

// HistoryEntryDTO registro de auditoría de un lote.
type HistoryEntryDTO struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	LotID         string    `json:"lot_id"`
	ProductID     string    `json:"product_id"`
	Action        string    `json:"action"`
	Units         int64     `json:"units"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

// LowStockDTO producto por debajo de su stock mínimo con la cantidad sugerida de pedido.
type LowStockDTO struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	IdealStock         int64           `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado por unidad
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// ExpiringLotDTO lote activo próximo a vencer.
type ExpiringLotDTO struct {
	LotDTO
	DaysToExpire int `json:"days_to_expire"`
}

// ProductStockDTO stock agregado de un producto.
type ProductStockDTO struct {
	ProductID       string          `json:"product_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	StockActual     int64           `json:"stock_actual"`
	MinStock        int64           `json:"min_stock"`
	ActiveLots      int             `json:"active_lots"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	BelowMinimum    bool            `json:"below_minimum"`
}
