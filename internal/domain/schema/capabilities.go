// Package schema describe qué columnas de cantidad existen en la tabla de lotes del despliegue.
// Los esquemas antiguos solo guardan un total; los nuevos guardan empaques, unidades sueltas y
// el factor por empaque. El resto del motor se adapta a Capabilities en lugar de suponer una forma.
package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// Nombres de columna de la tabla lots que dependen del despliegue.
const (
	ColumnTotal              = "quantity"
	ColumnPackages           = "packages"
	ColumnLoose              = "loose_units"
	ColumnUnitFactor         = "units_per_package"
	ColumnDeactivationReason = "deactivation_reason"
)

// Capabilities es inmutable una vez construido; se comparte por puntero.
type Capabilities struct {
	HasTotalCounter       bool
	HasPackageCounter     bool // packages + loose_units
	HasUnitFactorCounter  bool
	HasDeactivationReason bool
}

// FromColumns construye las capacidades a partir del conjunto de columnas de lots.
func FromColumns(columns map[string]bool) (*Capabilities, error) {
	caps := &Capabilities{
		HasTotalCounter:       columns[ColumnTotal],
		HasPackageCounter:     columns[ColumnPackages] && columns[ColumnLoose],
		HasUnitFactorCounter:  columns[ColumnUnitFactor],
		HasDeactivationReason: columns[ColumnDeactivationReason],
	}
	if !caps.HasTotalCounter && !caps.HasPackageCounter {
		return nil, fmt.Errorf("%w: la tabla lots no tiene columnas de cantidad", domain.ErrStorageUnavailable)
	}
	return caps, nil
}

// Form devuelve la forma autoritativa: empaques cuando existen, total en otro caso.
func (c *Capabilities) Form() quantity.Form {
	if c.HasPackageCounter {
		return quantity.FormSplit
	}
	return quantity.FormTotal
}

// Prober consulta los metadatos del almacenamiento (una sola consulta).
type Prober interface {
	LotColumns(ctx context.Context) (map[string]bool, error)
}

// Descriptor calcula las capacidades una vez por proceso y las mantiene en caché
// hasta que se llame Refresh.
type Descriptor struct {
	prober Prober

	mu   sync.Mutex
	caps *Capabilities
}

// NewDescriptor construye el descriptor sobre el prober del almacenamiento activo.
func NewDescriptor(prober Prober) *Descriptor {
	return &Descriptor{prober: prober}
}

// Describe devuelve las capacidades en caché o las calcula si aún no existen.
func (d *Descriptor) Describe(ctx context.Context) (*Capabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caps != nil {
		return d.caps, nil
	}
	return d.probeLocked(ctx)
}

// Refresh descarta la caché y vuelve a consultar el almacenamiento.
func (d *Descriptor) Refresh(ctx context.Context) (*Capabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caps = nil
	return d.probeLocked(ctx)
}

func (d *Descriptor) probeLocked(ctx context.Context) (*Capabilities, error) {
	columns, err := d.prober.LotColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar columnas de lots: %w", domain.ErrStorageUnavailable, err)
	}
	caps, err := FromColumns(columns)
	if err != nil {
		return nil, err
	}
	d.caps = caps
	return caps, nil
}
