package entity

import "time"

// Acciones registradas en el historial de lotes.
const (
	HistoryActionReceipt      = "RECEIPT"      // recepción de compra
	HistoryActionSale         = "SALE"         // venta
	HistoryActionDevolution   = "DEVOLUTION"   // devolución de venta
	HistoryActionAdjustment   = "ADJUSTMENT"   // ajuste manual
	HistoryActionDeactivation = "DEACTIVATION" // baja del lote
	HistoryActionReactivation = "REACTIVATION" // reactivación del lote
)

// HistoryEntry es un registro inmutable de auditoría sobre un lote.
type HistoryEntry struct {
	ID            string
	TransactionID string // agrupa los registros de una misma operación
	LotID         string
	ProductID     string
	Action        string
	Units         int64 // positivo ingreso, negativo salida
	Detail        string
	CreatedAt     time.Time
	CreatedBy     string
}
