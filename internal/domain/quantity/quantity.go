// Package quantity convierte cantidades de lote entre unidades mínimas y empaques.
//
// La forma canónica en el dominio es siempre el total de unidades mínimas más el factor
// (unidades por empaque) del lote. Counts es la unión etiquetada que se persiste: según las
// columnas disponibles el almacenamiento guarda solo el total (FormTotal) o empaques + sueltas
// (FormSplit). La conversión ocurre en el borde del almacenamiento.
package quantity

import (
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// Form indica cuál brazo de Counts es autoritativo.
type Form uint8

const (
	FormTotal Form = iota + 1 // solo contador total
	FormSplit                 // empaques + unidades sueltas
)

func (f Form) String() string {
	switch f {
	case FormTotal:
		return "total"
	case FormSplit:
		return "split"
	}
	return "unknown"
}

// Counts es la representación persistida de la cantidad restante de un lote.
type Counts struct {
	Form     Form
	Total    int64 // FormTotal
	Packages int64 // FormSplit
	Loose    int64 // FormSplit: unidades sueltas fuera de empaques completos
}

// NormalizeFactor devuelve 1 cuando el factor está ausente o no es positivo.
func NormalizeFactor(factor int64) int64 {
	if factor <= 0 {
		return 1
	}
	return factor
}

// UnitsFromCounts devuelve el total de unidades mínimas representado por c.
func UnitsFromCounts(c Counts, factor int64) int64 {
	if c.Form == FormTotal {
		return c.Total
	}
	return c.Packages*NormalizeFactor(factor) + c.Loose
}

// CountsFromUnits descompone units según la forma de almacenamiento.
// units negativos se tratan como cero: ninguna operación produce conteos negativos.
func CountsFromUnits(units, factor int64, form Form) Counts {
	if units < 0 {
		units = 0
	}
	if form == FormTotal {
		return Counts{Form: FormTotal, Total: units}
	}
	f := NormalizeFactor(factor)
	packages := units / f
	return Counts{Form: FormSplit, Packages: packages, Loose: units - packages*f}
}

// Validate verifica que ningún componente sea negativo.
func (c Counts) Validate() error {
	switch c.Form {
	case FormTotal:
		if c.Total < 0 {
			return fmt.Errorf("%w: total negativo (%d)", domain.ErrInconsistentLotState, c.Total)
		}
	case FormSplit:
		if c.Packages < 0 || c.Loose < 0 {
			return fmt.Errorf("%w: empaques=%d sueltas=%d", domain.ErrInconsistentLotState, c.Packages, c.Loose)
		}
	default:
		return fmt.Errorf("%w: forma de cantidad desconocida", domain.ErrInconsistentLotState)
	}
	return nil
}

// Mode es la granularidad en que el cliente expresa una cantidad de venta o devolución.
type Mode string

const (
	ModePackage Mode = "package"
	ModeUnit    Mode = "unit"
)

// ParseMode acepta "package" o "unit"; vacío equivale a unidad.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePackage:
		return ModePackage, nil
	case ModeUnit, "":
		return ModeUnit, nil
	}
	return "", fmt.Errorf("%w: modo de cantidad %q", domain.ErrValidation, s)
}

// UnitsFor convierte una cantidad expresada en mode a unidades mínimas.
func UnitsFor(qty int64, mode Mode, factor int64) (int64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrValidation)
	}
	switch mode {
	case ModePackage:
		return qty * NormalizeFactor(factor), nil
	case ModeUnit:
		return qty, nil
	}
	return 0, fmt.Errorf("%w: modo de cantidad %q", domain.ErrValidation, mode)
}
