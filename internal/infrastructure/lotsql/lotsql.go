// Package lotsql arma las sentencias de la tabla lots según las capacidades del esquema y
// convierte filas a entity.Lot. Las consultas usan placeholders "?"; el adaptador de
// PostgreSQL las reescribe a $n.
package lotsql

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// FIFOOrder orden de asignación de lotes.
const FIFOOrder = "ORDER BY expiration_date ASC NULLS LAST, id ASC"

var baseColumns = []string{
	"id", "product_id", "code", "expiration_date", "cost_price", "sale_price",
	"discount_pct", "tax_rate", "active", "created_at", "updated_at",
}

// quantityColumns columnas de cantidad presentes, en orden fijo: total, empaques, sueltas, factor.
func quantityColumns(caps *schema.Capabilities) []string {
	var cols []string
	if caps.HasTotalCounter {
		cols = append(cols, schema.ColumnTotal)
	}
	if caps.HasPackageCounter {
		cols = append(cols, schema.ColumnPackages, schema.ColumnLoose)
	}
	if caps.HasUnitFactorCounter {
		cols = append(cols, schema.ColumnUnitFactor)
	}
	return cols
}

// Columns lista completa de columnas leídas para las capacidades dadas.
func Columns(caps *schema.Capabilities) []string {
	cols := append([]string{}, baseColumns...)
	cols = append(cols, quantityColumns(caps)...)
	if caps.HasDeactivationReason {
		cols = append(cols, schema.ColumnDeactivationReason)
	}
	return cols
}

// Select devuelve "SELECT <cols> FROM lots" para las capacidades dadas.
func Select(caps *schema.Capabilities) string {
	return "SELECT " + strings.Join(Columns(caps), ", ") + " FROM lots"
}

// Row destino de escaneo de una fila de lots. Las columnas opcionales son punteros.
type Row struct {
	ID             string
	ProductID      string
	Code           string
	ExpirationDate *time.Time
	CostPrice      decimal.Decimal
	SalePrice      decimal.Decimal
	DiscountPct    decimal.Decimal
	TaxRate        decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Total          *int64
	Packages       *int64
	Loose          *int64
	Factor         *int64
	Reason         *string
}

// Dest devuelve los punteros de escaneo en el mismo orden que Columns(caps).
func (r *Row) Dest(caps *schema.Capabilities) []any {
	dest := []any{
		&r.ID, &r.ProductID, &r.Code, &r.ExpirationDate, &r.CostPrice, &r.SalePrice,
		&r.DiscountPct, &r.TaxRate, &r.Active, &r.CreatedAt, &r.UpdatedAt,
	}
	if caps.HasTotalCounter {
		dest = append(dest, &r.Total)
	}
	if caps.HasPackageCounter {
		dest = append(dest, &r.Packages, &r.Loose)
	}
	if caps.HasUnitFactorCounter {
		dest = append(dest, &r.Factor)
	}
	if caps.HasDeactivationReason {
		dest = append(dest, &r.Reason)
	}
	return dest
}

// Lot convierte la fila al lote canónico. Con empaques disponibles la forma dividida es
// autoritativa; si además existe el total y no coincide, el lote es inconsistente.
func (r *Row) Lot(caps *schema.Capabilities) (*entity.Lot, error) {
	factor := int64(1)
	if caps.HasUnitFactorCounter && r.Factor != nil {
		factor = quantity.NormalizeFactor(*r.Factor)
	}

	counts := quantity.Counts{Form: caps.Form()}
	if caps.HasPackageCounter {
		counts.Packages = deref(r.Packages)
		counts.Loose = deref(r.Loose)
	} else {
		counts.Total = deref(r.Total)
	}
	if err := counts.Validate(); err != nil {
		return nil, fmt.Errorf("lote %s: %w", r.ID, err)
	}
	units := quantity.UnitsFromCounts(counts, factor)
	if caps.HasPackageCounter && caps.HasTotalCounter && r.Total != nil && *r.Total != units {
		return nil, fmt.Errorf("%w: lote %s total=%d, empaques=%d x %d + %d", domain.ErrInconsistentLotState, r.ID, *r.Total, counts.Packages, factor, counts.Loose)
	}

	lot := &entity.Lot{
		ID:             r.ID,
		ProductID:      r.ProductID,
		Code:           r.Code,
		ExpirationDate: r.ExpirationDate,
		CostPrice:      r.CostPrice,
		SalePrice:      r.SalePrice,
		DiscountPct:    r.DiscountPct,
		TaxRate:        r.TaxRate,
		Units:          units,
		Factor:         factor,
		Active:         r.Active,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Reason != nil {
		lot.DeactivationReason = *r.Reason
	}
	return lot, nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

// quantityValues valores de las columnas de cantidad en el orden de quantityColumns.
func quantityValues(caps *schema.Capabilities, lot *entity.Lot) ([]any, error) {
	if lot.Units < 0 {
		return nil, fmt.Errorf("%w: lote %s con saldo negativo (%d)", domain.ErrInconsistentLotState, lot.ID, lot.Units)
	}
	factor := quantity.NormalizeFactor(lot.Factor)
	if !caps.HasUnitFactorCounter {
		// sin columna de factor el almacenamiento solo conoce unidades
		factor = 1
	}
	var vals []any
	if caps.HasTotalCounter {
		vals = append(vals, lot.Units)
	}
	if caps.HasPackageCounter {
		c := quantity.CountsFromUnits(lot.Units, factor, quantity.FormSplit)
		vals = append(vals, c.Packages, c.Loose)
	}
	if caps.HasUnitFactorCounter {
		vals = append(vals, factor)
	}
	return vals, nil
}

// Insert devuelve la sentencia y argumentos para insertar el lote.
func Insert(caps *schema.Capabilities, lot *entity.Lot) (string, []any, error) {
	qvals, err := quantityValues(caps, lot)
	if err != nil {
		return "", nil, err
	}
	cols := append([]string{}, baseColumns...)
	args := []any{
		lot.ID, lot.ProductID, lot.Code, lot.ExpirationDate, lot.CostPrice, lot.SalePrice,
		lot.DiscountPct, lot.TaxRate, lot.Active, lot.CreatedAt, lot.UpdatedAt,
	}
	cols = append(cols, quantityColumns(caps)...)
	args = append(args, qvals...)
	if caps.HasDeactivationReason {
		cols = append(cols, schema.ColumnDeactivationReason)
		args = append(args, nullString(lot.DeactivationReason))
	}
	query := fmt.Sprintf("INSERT INTO lots (%s) VALUES (%s)", strings.Join(cols, ", "), placeholders(len(cols)))
	return query, args, nil
}

// UpdateQuantity devuelve la sentencia que persiste el saldo del lote en la forma disponible.
func UpdateQuantity(caps *schema.Capabilities, lot *entity.Lot) (string, []any, error) {
	qvals, err := quantityValues(caps, lot)
	if err != nil {
		return "", nil, err
	}
	sets := make([]string, 0, 5)
	for _, c := range quantityColumns(caps) {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args := append(qvals, lot.UpdatedAt, lot.ID)
	return "UPDATE lots SET " + strings.Join(sets, ", ") + " WHERE id = ?", args, nil
}

// SetActive devuelve la sentencia de activación/desactivación. El motivo solo se guarda
// si existe la columna; al reactivar se limpia.
func SetActive(caps *schema.Capabilities, id string, active bool, reason string, now time.Time) (string, []any) {
	if caps.HasDeactivationReason {
		var r any
		if !active {
			r = nullString(reason)
		}
		return "UPDATE lots SET active = ?, " + schema.ColumnDeactivationReason + " = ?, updated_at = ? WHERE id = ?",
			[]any{active, r, now, id}
	}
	return "UPDATE lots SET active = ?, updated_at = ? WHERE id = ?", []any{active, now, id}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
