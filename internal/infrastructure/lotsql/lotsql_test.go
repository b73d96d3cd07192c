package lotsql_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/lotsql"
)

var (
	legacy = &schema.Capabilities{HasTotalCounter: true}
	split  = &schema.Capabilities{HasPackageCounter: true, HasUnitFactorCounter: true, HasDeactivationReason: true}
	full   = &schema.Capabilities{HasTotalCounter: true, HasPackageCounter: true, HasUnitFactorCounter: true, HasDeactivationReason: true}
)

func ptr(v int64) *int64 { return &v }

func lotTime() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestSelect_ColumnasSegunCapacidades(t *testing.T) {
	assert.Equal(t,
		"SELECT id, product_id, code, expiration_date, cost_price, sale_price, discount_pct, tax_rate, active, created_at, updated_at, quantity FROM lots",
		lotsql.Select(legacy))
	assert.Contains(t, lotsql.Select(split), "packages, loose_units, units_per_package, deactivation_reason FROM lots")
	assert.NotContains(t, lotsql.Select(split), "quantity")
}

func TestRow_DestCoincideConColumnas(t *testing.T) {
	for _, caps := range []*schema.Capabilities{legacy, split, full} {
		var r lotsql.Row
		assert.Len(t, r.Dest(caps), len(lotsql.Columns(caps)))
	}
}

func TestRow_Lot_FormaDividida(t *testing.T) {
	r := lotsql.Row{ID: "L1", Packages: ptr(3), Loose: ptr(4), Factor: ptr(10), Active: true}
	lot, err := r.Lot(split)
	require.NoError(t, err)
	assert.Equal(t, int64(34), lot.Units)
	assert.Equal(t, int64(10), lot.Factor)
}

func TestRow_Lot_LegacySinFactor(t *testing.T) {
	r := lotsql.Row{ID: "L1", Total: ptr(25)}
	lot, err := r.Lot(legacy)
	require.NoError(t, err)
	assert.Equal(t, int64(25), lot.Units)
	assert.Equal(t, int64(1), lot.Factor)
}

func TestRow_Lot_Inconsistente(t *testing.T) {
	r := lotsql.Row{ID: "L1", Total: ptr(99), Packages: ptr(3), Loose: ptr(4), Factor: ptr(10)}
	_, err := r.Lot(full)
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)

	neg := lotsql.Row{ID: "L2", Packages: ptr(-1), Loose: ptr(0), Factor: ptr(10)}
	_, err = neg.Lot(split)
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)
}

func TestUpdateQuantity_EscribeAmbasFormas(t *testing.T) {
	lot := &entity.Lot{ID: "L1", Units: 34, Factor: 10}
	q, args, err := lotsql.UpdateQuantity(full, lot)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE lots SET quantity = ?, packages = ?, loose_units = ?, units_per_package = ?, updated_at = ? WHERE id = ?", q)
	assert.Equal(t, []any{int64(34), int64(3), int64(4), int64(10)}, args[:4])
	assert.Equal(t, "L1", args[5])

	lot.Units = -1
	_, _, err = lotsql.UpdateQuantity(full, lot)
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)
}

func TestInsert_PlaceholdersYArgs(t *testing.T) {
	lot := &entity.Lot{ID: "L1", ProductID: "P1", Units: 7, Factor: 3, Active: true}
	q, args, err := lotsql.Insert(legacy, lot)
	require.NoError(t, err)
	assert.Equal(t, 12, len(args))
	assert.Contains(t, q, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	assert.Equal(t, int64(7), args[11])
}

func TestSetActive_SinColumnaMotivo(t *testing.T) {
	q, args := lotsql.SetActive(legacy, "L1", false, "vencido", lotTime())
	assert.NotContains(t, q, "deactivation_reason")
	assert.Len(t, args, 3)

	q, args = lotsql.SetActive(split, "L1", true, "ignorado", lotTime())
	assert.Contains(t, q, "deactivation_reason = ?")
	assert.Nil(t, args[1], "al reactivar se limpia el motivo")
}
