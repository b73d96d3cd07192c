// Package metrics expone contadores Prometheus de las operaciones del libro.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

var _ inventory.MetricsRecorder = (*Ledger)(nil)

// Ledger agrupa las métricas del libro en un registro propio.
type Ledger struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	units      *prometheus.CounterVec
}

// NewLedger crea el registro con los colectores de proceso y de Go.
func NewLedger() *Ledger {
	m := &Ledger{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmacia",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Operaciones del libro por tipo y resultado.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "farmacia",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duración de las operaciones del libro.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "farmacia",
			Subsystem: "ledger",
			Name:      "units_moved_total",
			Help:      "Unidades mínimas movidas por tipo de operación.",
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.operations, m.duration, m.units,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Result clasifica el error de una operación en una etiqueta de baja cardinalidad.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrReturnExceedsOutstanding):
		return "return_exceeds_outstanding"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInconsistentLotState):
		return "inconsistent_lot"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "error"
}

// ObserveOperation cuenta la operación y su duración.
func (m *Ledger) ObserveOperation(operation string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, Result(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// AddUnits suma unidades movidas; valores no positivos se ignoran.
func (m *Ledger) AddUnits(operation string, units int64) {
	if units <= 0 {
		return
	}
	m.units.WithLabelValues(operation).Add(float64(units))
}

// Registry registro subyacente (tests y colectores adicionales).
func (m *Ledger) Registry() *prometheus.Registry {
	return m.registry
}

// Handler handler HTTP de exposición para /metrics.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
