package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

type fakeProber struct {
	columns map[string]bool
	err     error
	calls   int
}

func (p *fakeProber) LotColumns(context.Context) (map[string]bool, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.columns, nil
}

func TestDescribe_CacheaHastaRefresh(t *testing.T) {
	p := &fakeProber{columns: map[string]bool{"quantity": true}}
	d := schema.NewDescriptor(p)

	caps1, err := d.Describe(context.Background())
	require.NoError(t, err)
	caps2, err := d.Describe(context.Background())
	require.NoError(t, err)

	assert.Same(t, caps1, caps2, "Describe debe devolver el mismo valor en caché")
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, quantity.FormTotal, caps1.Form())

	// migración del esquema: aparecen columnas de empaques
	p.columns = map[string]bool{"packages": true, "loose_units": true, "units_per_package": true, "deactivation_reason": true}
	caps3, err := d.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
	assert.True(t, caps3.HasPackageCounter)
	assert.True(t, caps3.HasUnitFactorCounter)
	assert.True(t, caps3.HasDeactivationReason)
	assert.Equal(t, quantity.FormSplit, caps3.Form())
}

func TestDescribe_AlmacenamientoCaido(t *testing.T) {
	p := &fakeProber{err: errors.New("connection refused")}
	d := schema.NewDescriptor(p)

	_, err := d.Describe(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	// un fallo no queda en caché
	p.err = nil
	p.columns = map[string]bool{"quantity": true}
	_, err = d.Describe(context.Background())
	assert.NoError(t, err)
}

func TestFromColumns_SinColumnasDeCantidad(t *testing.T) {
	_, err := schema.FromColumns(map[string]bool{"id": true, "packages": true})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable, "packages sin loose_units no es una forma válida")
}
