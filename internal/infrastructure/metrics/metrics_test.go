package metrics_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/metrics"
)

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", metrics.Result(nil))
	assert.Equal(t, "insufficient_stock", metrics.Result(fmt.Errorf("venta: %w", domain.ErrInsufficientStock)))
	assert.Equal(t, "return_exceeds_outstanding", metrics.Result(domain.ErrReturnExceedsOutstanding))
	assert.Equal(t, "validation", metrics.Result(domain.ErrNotFound))
	assert.Equal(t, "storage_unavailable", metrics.Result(domain.ErrStorageUnavailable))
	assert.Equal(t, "error", metrics.Result(errors.New("x")))
}

func TestLedger_Contadores(t *testing.T) {
	m := metrics.NewLedger()
	m.ObserveOperation("sale", nil, 10*time.Millisecond)
	m.ObserveOperation("sale", domain.ErrInsufficientStock, time.Millisecond)
	m.AddUnits("sale", 7)
	m.AddUnits("sale", 0)

	n, err := testutil.GatherAndCount(m.Registry(), "farmacia_ledger_operations_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por resultado")

	n, err = testutil.GatherAndCount(m.Registry(), "farmacia_ledger_units_moved_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
