package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

var hundred = decimal.NewFromInt(100)

// LinePrice resultado del cálculo de una línea de venta.
type LinePrice struct {
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// NormalizeRate convierte la tasa en puntos porcentuales (0, 5, 19) a fracción.
func NormalizeRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(hundred)
}

// PriceLine calcula el precio de qty en mode contra el registro del lote.
// En modo unidad el precio es SalePrice / factor redondeado a 2 decimales.
// Descuento = subtotal × pct/100; impuesto sobre (subtotal − descuento).
func PriceLine(lot *entity.Lot, qty int64, mode quantity.Mode) LinePrice {
	unitPrice := lot.SalePrice
	if mode == quantity.ModeUnit {
		unitPrice = lot.SalePrice.Div(decimal.NewFromInt(quantity.NormalizeFactor(lot.Factor))).Round(2)
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(qty))
	discount := subtotal.Mul(lot.DiscountPct).Div(hundred).Round(2)
	tax := subtotal.Sub(discount).Mul(NormalizeRate(lot.TaxRate)).Round(2)
	return LinePrice{
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Total:     subtotal.Sub(discount).Add(tax),
	}
}

// ProrateRefund devuelve la parte de total correspondiente a units de sold, redondeada a 2 decimales.
func ProrateRefund(total decimal.Decimal, units, sold int64) decimal.Decimal {
	if sold <= 0 || units <= 0 {
		return decimal.Zero
	}
	if units >= sold {
		return total
	}
	return total.Mul(decimal.NewFromInt(units)).Div(decimal.NewFromInt(sold)).Round(2)
}
