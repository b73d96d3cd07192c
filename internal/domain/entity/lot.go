package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// Lot representa un lote fechado y con precio de un producto, con su propio saldo.
// Units es el saldo canónico en unidades mínimas; Factor las unidades por empaque (>= 1).
// La forma en que se persiste (total o empaques + sueltas) se decide en el borde del almacenamiento.
// Los precios son por empaque de Factor unidades; sin columna de factor Factor es 1 y el precio es por unidad.
type Lot struct {
	ID                 string
	ProductID          string
	Code               string     // número de lote impreso en el empaque
	ExpirationDate     *time.Time // nil = sin vencimiento
	CostPrice          decimal.Decimal // costo por empaque
	SalePrice          decimal.Decimal // precio de venta por empaque
	DiscountPct        decimal.Decimal // 0..100
	TaxRate            decimal.Decimal // porcentaje: 19 = 19%
	Units              int64
	Factor             int64
	Active             bool
	DeactivationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Packages devuelve los empaques completos del saldo.
func (l *Lot) Packages() int64 {
	return l.Counts(quantity.FormSplit).Packages
}

// LooseUnits devuelve las unidades sueltas fuera de empaques completos.
func (l *Lot) LooseUnits() int64 {
	return l.Counts(quantity.FormSplit).Loose
}

// Counts devuelve el saldo en la forma de almacenamiento pedida.
func (l *Lot) Counts(form quantity.Form) quantity.Counts {
	return quantity.CountsFromUnits(l.Units, l.Factor, form)
}

// Take retira hasta units del lote y devuelve lo efectivamente retirado.
// Un lote con saldo no positivo no entrega nada.
func (l *Lot) Take(units int64) int64 {
	if units <= 0 || l.Units <= 0 {
		return 0
	}
	taken := units
	if l.Units < taken {
		taken = l.Units
	}
	l.Units -= taken
	return taken
}

// Withdraw retira exactamente units o falla sin modificar el lote.
func (l *Lot) Withdraw(units int64) error {
	if units <= 0 {
		return fmt.Errorf("%w: la cantidad a retirar debe ser positiva", domain.ErrValidation)
	}
	if l.Units < units {
		return fmt.Errorf("%w: lote %s disponible %d, solicitado %d", domain.ErrInsufficientStock, l.ID, l.Units, units)
	}
	l.Units -= units
	return nil
}

// Deposit suma units al saldo del lote.
func (l *Lot) Deposit(units int64) error {
	if units <= 0 {
		return fmt.Errorf("%w: la cantidad a ingresar debe ser positiva", domain.ErrValidation)
	}
	l.Units += units
	return nil
}

// SameTerms indica si una compra puede reabastecer este lote: mismo costo, precio,
// impuesto y descuento. El factor se compara aparte, solo donde el esquema lo guarda.
func (l *Lot) SameTerms(cost, price, tax, discount decimal.Decimal) bool {
	return l.CostPrice.Equal(cost) &&
		l.SalePrice.Equal(price) &&
		l.TaxRate.Equal(tax) &&
		l.DiscountPct.Equal(discount)
}
