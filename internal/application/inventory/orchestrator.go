package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	dominv "github.com/jhoicas/Farmacia-api/internal/domain/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/quantity"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
)

// mutation acumula los efectos de una operación dentro de su transacción.
// Las escrituras de lote son inmediatas (lecturas posteriores en la misma tx las ven);
// los deltas de agregado y el historial se aplican una sola vez en flush.
type mutation struct {
	ctx    context.Context
	repos  TxRepos
	caps   *schema.Capabilities
	txID   string
	actor  string
	action string
	now    time.Time

	deltas   map[string]int64 // producto -> delta de stock_actual
	entries  map[string]*entity.HistoryEntry
	lotOrder []string
	stock    map[string]int64 // stock_actual resultante tras flush
	moved    int64            // unidades movidas (valor absoluto)
}

func newMutation(ctx context.Context, repos TxRepos, caps *schema.Capabilities, txID, actor, action string, now time.Time) *mutation {
	return &mutation{
		ctx:     ctx,
		repos:   repos,
		caps:    caps,
		txID:    txID,
		actor:   actor,
		action:  action,
		now:     now,
		deltas:  make(map[string]int64),
		entries: make(map[string]*entity.HistoryEntry),
		stock:   make(map[string]int64),
	}
}

// storedFactor es el factor que conserva el lote. Sin columna units_per_package el lote
// solo guarda unidades mínimas y su factor efectivo es 1.
func (m *mutation) storedFactor(factor int64) int64 {
	if !m.caps.HasUnitFactorCounter {
		return 1
	}
	return quantity.NormalizeFactor(factor)
}

// storedPrice expresa un precio por empaque de factor unidades en la unidad que guarda el lote.
func (m *mutation) storedPrice(price decimal.Decimal, factor int64) decimal.Decimal {
	factor = quantity.NormalizeFactor(factor)
	if m.caps.HasUnitFactorCounter || factor == 1 {
		return price
	}
	return price.Div(decimal.NewFromInt(factor)).Round(2)
}

// product obtiene un producto activo o falla con ErrNotFound / ErrValidation.
func (m *mutation) product(id string) (*entity.Product, error) {
	p, err := m.repos.Products.GetByID(m.ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrValidation, id)
	}
	return p, nil
}

// lockLot bloquea y devuelve el lote; ErrNotFound si no existe.
func (m *mutation) lockLot(id string) (*entity.Lot, error) {
	lot, err := m.repos.Lots.GetForUpdate(m.ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return lot, nil
}

// withdraw descuenta units de un lote activo y lo persiste.
func (m *mutation) withdraw(lot *entity.Lot, units int64, detail string) error {
	if !lot.Active {
		return fmt.Errorf("%w: lote %s inactivo", domain.ErrValidation, lot.ID)
	}
	if err := lot.Withdraw(units); err != nil {
		return err
	}
	lot.UpdatedAt = m.now
	if err := m.repos.Lots.UpdateQuantity(m.ctx, lot); err != nil {
		return err
	}
	m.deltas[lot.ProductID] -= units
	m.record(lot, -units, detail)
	return nil
}

// deposit suma units al lote. El agregado solo cambia si el lote está activo.
func (m *mutation) deposit(lot *entity.Lot, units int64, detail string) error {
	if err := lot.Deposit(units); err != nil {
		return err
	}
	lot.UpdatedAt = m.now
	if err := m.repos.Lots.UpdateQuantity(m.ctx, lot); err != nil {
		return err
	}
	if lot.Active {
		m.deltas[lot.ProductID] += units
	} else {
		m.touch(lot.ProductID)
	}
	m.record(lot, units, detail)
	return nil
}

// createLot inserta un lote nuevo y suma su saldo al agregado.
func (m *mutation) createLot(lot *entity.Lot, detail string) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	if lot.Units < 0 {
		return fmt.Errorf("%w: saldo inicial negativo", domain.ErrValidation)
	}
	lot.CreatedAt = m.now
	lot.UpdatedAt = m.now
	if err := m.repos.Lots.Create(m.ctx, lot); err != nil {
		return err
	}
	if lot.Active {
		m.deltas[lot.ProductID] += lot.Units
	} else {
		m.touch(lot.ProductID)
	}
	m.record(lot, lot.Units, detail)
	return nil
}

// allocate consume units del producto en orden FIFO sobre sus lotes activos bloqueados.
// Si la suma disponible no alcanza falla antes de escribir cualquier lote.
func (m *mutation) allocate(productID string, units int64, detail string) ([]dominv.Take, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrValidation)
	}
	lots, err := m.repos.Lots.ListActiveByProductForUpdate(m.ctx, productID)
	if err != nil {
		return nil, err
	}
	takes, taken := dominv.PlanFIFO(lots, units)
	if taken < units {
		return nil, fmt.Errorf("%w: producto %s disponible %d, solicitado %d", domain.ErrInsufficientStock, productID, taken, units)
	}
	for _, t := range takes {
		if err := m.withdraw(t.Lot, t.Units, detail); err != nil {
			return nil, err
		}
	}
	return takes, nil
}

// deactivate retira el lote de la asignación y su saldo del agregado. El saldo del lote no cambia.
func (m *mutation) deactivate(lot *entity.Lot, reason string) error {
	if !lot.Active {
		return fmt.Errorf("%w: el lote %s ya está inactivo", domain.ErrValidation, lot.ID)
	}
	if err := m.repos.Lots.SetActive(m.ctx, lot.ID, false, reason, m.now); err != nil {
		return err
	}
	lot.Active = false
	lot.UpdatedAt = m.now
	lot.DeactivationReason = reason
	m.deltas[lot.ProductID] -= max(lot.Units, 0)
	m.record(lot, 0, fmt.Sprintf("baja: %s (%d unidades fuera de stock)", reason, lot.Units))
	return nil
}

// reactivate devuelve el lote a la asignación y vuelve a sumar su saldo almacenado.
func (m *mutation) reactivate(lot *entity.Lot) error {
	if lot.Active {
		return fmt.Errorf("%w: el lote %s ya está activo", domain.ErrValidation, lot.ID)
	}
	if err := m.repos.Lots.SetActive(m.ctx, lot.ID, true, "", m.now); err != nil {
		return err
	}
	lot.Active = true
	lot.UpdatedAt = m.now
	lot.DeactivationReason = ""
	m.deltas[lot.ProductID] += max(lot.Units, 0)
	m.record(lot, 0, fmt.Sprintf("reactivación (%d unidades de vuelta a stock)", lot.Units))
	return nil
}

func (m *mutation) touch(productID string) {
	if _, ok := m.deltas[productID]; !ok {
		m.deltas[productID] = 0
	}
}

// record acumula un registro de historial por lote: unidades sumadas, detalles unidos.
func (m *mutation) record(lot *entity.Lot, units int64, detail string) {
	if units < 0 {
		m.moved -= units
	} else {
		m.moved += units
	}
	e, ok := m.entries[lot.ID]
	if !ok {
		m.entries[lot.ID] = &entity.HistoryEntry{
			ID:            uuid.New().String(),
			TransactionID: m.txID,
			LotID:         lot.ID,
			ProductID:     lot.ProductID,
			Action:        m.action,
			Units:         units,
			Detail:        detail,
			CreatedAt:     m.now,
			CreatedBy:     m.actor,
		}
		m.lotOrder = append(m.lotOrder, lot.ID)
		return
	}
	e.Units += units
	if detail != "" && !strings.Contains(e.Detail, detail) {
		if e.Detail != "" {
			e.Detail += "; "
		}
		e.Detail += detail
	}
}

// flush aplica un delta relativo por producto (en orden de id para evitar interbloqueos)
// y luego inserta el historial.
func (m *mutation) flush() error {
	for _, id := range m.products() {
		stock, err := m.repos.Products.ApplyStockDelta(m.ctx, id, m.deltas[id])
		if err != nil {
			return fmt.Errorf("aplicar delta de stock a %s: %w", id, err)
		}
		m.stock[id] = stock
	}
	for _, lotID := range m.lotOrder {
		if err := m.repos.History.Create(m.ctx, m.entries[lotID]); err != nil {
			return err
		}
	}
	return nil
}

// products devuelve los productos tocados ordenados por id.
func (m *mutation) products() []string {
	ids := make([]string, 0, len(m.deltas))
	for id := range m.deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
