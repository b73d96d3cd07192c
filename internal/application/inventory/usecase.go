package inventory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Nombres de operación usados en logs y métricas.
const (
	OpReceipt      = "receipt"
	OpSale         = "sale"
	OpDevolution   = "devolution"
	OpAdjustment   = "adjustment"
	OpDeactivation = "deactivation"
	OpReactivation = "reactivation"
)

// Ledger agrupa las dependencias compartidas por los casos de uso del libro de inventario.
// Cache y Metrics son opcionales.
type Ledger struct {
	tx      TxRunner
	schema  CapabilityProvider
	log     *logger.Logger
	cache   StockCache
	metrics MetricsRecorder
	now     func() time.Time

	// gen avanza con cada commit, antes de invalidar la caché.
	gen atomic.Uint64
}

// NewLedger construye el núcleo con el runner transaccional y el descriptor de esquema.
func NewLedger(tx TxRunner, desc CapabilityProvider, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{tx: tx, schema: desc, log: log, now: time.Now}
}

// WithCache activa la invalidación (y lectura) de la caché de stock.
func (l *Ledger) WithCache(c StockCache) *Ledger {
	l.cache = c
	return l
}

// WithMetrics activa el registro de métricas.
func (l *Ledger) WithMetrics(m MetricsRecorder) *Ledger {
	l.metrics = m
	return l
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// execute corre fn dentro de una única transacción con un acumulador de mutaciones y aplica
// los deltas de agregado y el historial antes del commit. Cualquier error descarta todo.
func (l *Ledger) execute(ctx context.Context, op, action, actor string, fn func(m *mutation) error) (*mutation, error) {
	start := time.Now()
	txID := uuid.New().String()

	caps, err := l.schema.Describe(ctx)
	if err != nil {
		l.finish(op, txID, nil, err, start)
		return nil, err
	}

	var m *mutation
	err = l.tx.Run(ctx, caps, func(r TxRepos) error {
		m = newMutation(ctx, r, caps, txID, actor, action, l.now())
		if err := fn(m); err != nil {
			return err
		}
		return m.flush()
	})
	if err != nil {
		l.finish(op, txID, nil, err, start)
		return nil, err
	}

	if l.cache != nil {
		l.gen.Add(1)
		if cerr := l.cache.Invalidate(ctx, m.products()...); cerr != nil {
			l.log.Operation(op, txID).Warn().Err(cerr).Msg("no se pudo invalidar la caché de stock")
		}
	}
	l.finish(op, txID, m, nil, start)
	return m, nil
}

func (l *Ledger) finish(op, txID string, m *mutation, err error, start time.Time) {
	elapsed := time.Since(start)
	if l.metrics != nil {
		l.metrics.ObserveOperation(op, err, elapsed)
		if m != nil {
			l.metrics.AddUnits(op, m.moved)
		}
	}
	log := l.log.Operation(op, txID)
	if err != nil {
		log.Warn().Err(err).Dur("duration", elapsed).Msg("operación de inventario rechazada")
		return
	}
	log.Info().
		Strs("products", m.products()).
		Int("lots", len(m.lotOrder)).
		Dur("duration", elapsed).
		Msg("operación de inventario registrada")
}

// view ejecuta una lectura consistente con las capacidades actuales.
func (l *Ledger) view(ctx context.Context, fn func(TxRepos, *schema.Capabilities) error) error {
	caps, err := l.schema.Describe(ctx)
	if err != nil {
		return err
	}
	return l.tx.View(ctx, caps, func(r TxRepos) error { return fn(r, caps) })
}
