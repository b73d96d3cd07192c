package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func lot(id string, exp *time.Time, units int64) *entity.Lot {
	return &entity.Lot{ID: id, ProductID: "p1", ExpirationDate: exp, Units: units, Factor: 1, Active: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// PlanFIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanFIFO_ConsumeVencimientoMasCercanoPrimero(t *testing.T) {
	a := lot("A", date("2025-01-01"), 5)
	b := lot("B", date("2025-06-01"), 10)

	takes, taken := inventory.PlanFIFO([]*entity.Lot{b, a}, 7)

	require.Len(t, takes, 2)
	assert.Equal(t, int64(7), taken)
	assert.Equal(t, "A", takes[0].Lot.ID)
	assert.Equal(t, int64(5), takes[0].Units)
	assert.Equal(t, "B", takes[1].Lot.ID)
	assert.Equal(t, int64(2), takes[1].Units)
	assert.Equal(t, int64(5), a.Units, "PlanFIFO no modifica los lotes")
}

func TestPlanFIFO_Insuficiente(t *testing.T) {
	takes, taken := inventory.PlanFIFO([]*entity.Lot{lot("A", nil, 5), lot("B", nil, 10)}, 20)
	assert.Equal(t, int64(15), taken)
	assert.Len(t, takes, 2)
}

func TestPlanFIFO_OmiteLotesSinSaldoEInactivos(t *testing.T) {
	empty := lot("A", date("2024-01-01"), 0)
	negative := lot("B", date("2024-02-01"), -3)
	inactive := lot("C", date("2024-03-01"), 50)
	inactive.Active = false
	ok := lot("D", date("2024-04-01"), 4)

	takes, taken := inventory.PlanFIFO([]*entity.Lot{empty, negative, inactive, ok}, 3)
	require.Len(t, takes, 1)
	assert.Equal(t, "D", takes[0].Lot.ID)
	assert.Equal(t, int64(3), taken)
}

func TestSortFIFO_SinVencimientoAlFinalYDesempatePorID(t *testing.T) {
	lots := []*entity.Lot{
		lot("z", nil, 1),
		lot("b", date("2025-03-01"), 1),
		lot("a", nil, 1),
		lot("c", date("2025-03-01"), 1),
		lot("d", date("2025-01-01"), 1),
	}
	inventory.SortFIFO(lots)

	ids := make([]string, 0, len(lots))
	for _, l := range lots {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a", "z"}, ids)
}

func TestAvailable(t *testing.T) {
	inactive := lot("C", nil, 9)
	inactive.Active = false
	assert.Equal(t, int64(15), inventory.Available([]*entity.Lot{lot("A", nil, 5), lot("B", nil, 10), inactive, lot("D", nil, -1)}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio de línea
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceLine_ModoUnidad(t *testing.T) {
	l := &entity.Lot{
		SalePrice:   decimal.NewFromInt(12000),
		Factor:      10,
		DiscountPct: decimal.NewFromInt(10),
		TaxRate:     decimal.NewFromInt(19),
	}
	p := inventory.PriceLine(l, 5, quantity.ModeUnit)

	assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(1200)), p.UnitPrice.String())
	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(6000)), p.Subtotal.String())
	assert.True(t, p.Discount.Equal(decimal.NewFromInt(600)), p.Discount.String())
	assert.True(t, p.Tax.Equal(decimal.NewFromInt(1026)), p.Tax.String())
	assert.True(t, p.Total.Equal(decimal.NewFromInt(6426)), p.Total.String())
}

func TestPriceLine_ModoEmpaque(t *testing.T) {
	l := &entity.Lot{SalePrice: decimal.NewFromInt(5000), Factor: 20, TaxRate: decimal.NewFromInt(19)}
	p := inventory.PriceLine(l, 2, quantity.ModePackage)

	assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(5000)))
	assert.True(t, p.Subtotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, p.Discount.IsZero())
	assert.True(t, p.Tax.Equal(decimal.NewFromInt(1900)))
	assert.True(t, p.Total.Equal(decimal.NewFromInt(11900)))
}

func TestPriceLine_TasasBajasSonPorcentaje(t *testing.T) {
	cases := []struct {
		rate  string
		tax   string
		total string
	}{
		{"0", "0", "100"},
		{"1", "1", "101"},
		{"5", "5", "105"},
		{"0.5", "0.5", "100.5"},
	}
	for _, tc := range cases {
		t.Run(tc.rate, func(t *testing.T) {
			l := &entity.Lot{SalePrice: decimal.NewFromInt(100), Factor: 1, TaxRate: decimal.RequireFromString(tc.rate)}
			p := inventory.PriceLine(l, 1, quantity.ModePackage)
			assert.True(t, p.Tax.Equal(decimal.RequireFromString(tc.tax)), "impuesto=%s", p.Tax)
			assert.True(t, p.Total.Equal(decimal.RequireFromString(tc.total)), "total=%s", p.Total)
		})
	}
	assert.True(t, inventory.NormalizeRate(decimal.NewFromInt(19)).Equal(decimal.RequireFromString("0.19")))
}

func TestProrateRefund(t *testing.T) {
	total := decimal.NewFromInt(1000)
	assert.True(t, inventory.ProrateRefund(total, 4, 10).Equal(decimal.NewFromInt(400)))
	assert.True(t, inventory.ProrateRefund(total, 10, 10).Equal(total))
	assert.True(t, inventory.ProrateRefund(decimal.NewFromInt(100), 1, 3).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, inventory.ProrateRefund(total, 0, 10).IsZero())
}

func TestWeightedUnitCost(t *testing.T) {
	a := &entity.Lot{Active: true, Units: 10, Factor: 10, CostPrice: decimal.NewFromInt(1000)} // 100 por unidad
	b := &entity.Lot{Active: true, Units: 30, Factor: 1, CostPrice: decimal.NewFromInt(200)}
	off := &entity.Lot{Active: false, Units: 99, Factor: 1, CostPrice: decimal.NewFromInt(9999)}

	// (10×100 + 30×200) / 40 = 175
	assert.True(t, inventory.WeightedUnitCost([]*entity.Lot{a, b, off}).Equal(decimal.NewFromInt(175)))
	assert.True(t, inventory.WeightedUnitCost(nil).IsZero())
	assert.True(t, inventory.PurchaseLineCost(decimal.NewFromInt(2500), 4).Equal(decimal.NewFromInt(10000)))
}
