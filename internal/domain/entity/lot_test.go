package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

func TestLot_SecuenciaMantieneInvariante(t *testing.T) {
	l := &entity.Lot{ID: "L1", Factor: 12}
	ops := []int64{+30, -7, +12, -20, -15, +1, -1}
	for _, d := range ops {
		if d > 0 {
			require.NoError(t, l.Deposit(d))
		} else {
			require.NoError(t, l.Withdraw(-d))
		}
		c := l.Counts(quantity.FormSplit)
		require.NoError(t, c.Validate())
		assert.Equal(t, l.Units, c.Packages*12+c.Loose)
		assert.Less(t, c.Loose, int64(12))
	}
	assert.Zero(t, l.Units)
}

func TestLot_WithdrawInsuficienteNoModifica(t *testing.T) {
	l := &entity.Lot{ID: "L1", Factor: 1, Units: 3}
	err := l.Withdraw(4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), l.Units)

	assert.ErrorIs(t, l.Withdraw(0), domain.ErrValidation)
	assert.ErrorIs(t, l.Deposit(-1), domain.ErrValidation)
}

func TestLot_Take(t *testing.T) {
	l := &entity.Lot{Units: 5}
	assert.Equal(t, int64(5), l.Take(7))
	assert.Zero(t, l.Units)
	assert.Zero(t, l.Take(1))
}

func TestLot_PackagesYSueltas(t *testing.T) {
	l := &entity.Lot{Units: 25, Factor: 10}
	assert.Equal(t, int64(2), l.Packages())
	assert.Equal(t, int64(5), l.LooseUnits())
}

func TestLot_SameTerms(t *testing.T) {
	l := &entity.Lot{
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(150),
		TaxRate: decimal.NewFromInt(19), DiscountPct: decimal.Zero, Factor: 0,
	}
	assert.True(t, l.SameTerms(decimal.RequireFromString("100.00"), decimal.NewFromInt(150), decimal.NewFromInt(19), decimal.Zero))
	assert.False(t, l.SameTerms(decimal.NewFromInt(100), decimal.NewFromInt(160), decimal.NewFromInt(19), decimal.Zero))
	assert.False(t, l.SameTerms(decimal.NewFromInt(100), decimal.NewFromInt(150), decimal.NewFromInt(5), decimal.Zero))
	assert.False(t, l.SameTerms(decimal.NewFromInt(100), decimal.NewFromInt(150), decimal.NewFromInt(19), decimal.NewFromInt(10)))
}
