package quantity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ley de ida y vuelta: UnitsFromCounts(CountsFromUnits(u, f), f) == u
// ──────────────────────────────────────────────────────────────────────────────

func TestRoundTrip_AmbasFormas(t *testing.T) {
	for _, form := range []quantity.Form{quantity.FormTotal, quantity.FormSplit} {
		for f := int64(1); f <= 13; f++ {
			for u := int64(0); u <= 200; u++ {
				c := quantity.CountsFromUnits(u, f, form)
				require.NoError(t, c.Validate())
				require.Equal(t, u, quantity.UnitsFromCounts(c, f), "form=%s u=%d f=%d", form, u, f)
			}
		}
	}
}

func TestCountsFromUnits_Split(t *testing.T) {
	c := quantity.CountsFromUnits(25, 10, quantity.FormSplit)
	assert.Equal(t, int64(2), c.Packages)
	assert.Equal(t, int64(5), c.Loose)
	assert.Zero(t, c.Total)
}

func TestCountsFromUnits_TotalDevuelveSinDescomponer(t *testing.T) {
	c := quantity.CountsFromUnits(25, 10, quantity.FormTotal)
	assert.Equal(t, int64(25), c.Total)
	assert.Zero(t, c.Packages)
	assert.Zero(t, c.Loose)
}

func TestCountsFromUnits_NegativoSeTrataComoCero(t *testing.T) {
	c := quantity.CountsFromUnits(-3, 4, quantity.FormSplit)
	assert.Equal(t, quantity.Counts{Form: quantity.FormSplit}, c)
}

func TestNormalizeFactor(t *testing.T) {
	assert.Equal(t, int64(1), quantity.NormalizeFactor(0))
	assert.Equal(t, int64(1), quantity.NormalizeFactor(-5))
	assert.Equal(t, int64(30), quantity.NormalizeFactor(30))

	// factor ausente en el cálculo: empaques cuentan como unidades
	c := quantity.Counts{Form: quantity.FormSplit, Packages: 3, Loose: 2}
	assert.Equal(t, int64(5), quantity.UnitsFromCounts(c, 0))
}

func TestValidate_ComponentesNegativos(t *testing.T) {
	err := quantity.Counts{Form: quantity.FormSplit, Packages: -1}.Validate()
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)

	err = quantity.Counts{Form: quantity.FormTotal, Total: -1}.Validate()
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)

	err = quantity.Counts{}.Validate()
	assert.ErrorIs(t, err, domain.ErrInconsistentLotState)
}

func TestUnitsFor(t *testing.T) {
	u, err := quantity.UnitsFor(3, quantity.ModePackage, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(30), u)

	u, err = quantity.UnitsFor(3, quantity.ModeUnit, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), u)

	_, err = quantity.UnitsFor(0, quantity.ModeUnit, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = quantity.UnitsFor(2, quantity.Mode("caja"), 10)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseMode(t *testing.T) {
	m, err := quantity.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, quantity.ModeUnit, m)

	m, err = quantity.ParseMode("package")
	require.NoError(t, err)
	assert.Equal(t, quantity.ModePackage, m)

	_, err = quantity.ParseMode("blister")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
