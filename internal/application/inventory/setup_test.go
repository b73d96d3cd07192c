package inventory_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: SQLite en memoria con la forma de lots indicada
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

var clockBase = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sqlx.DB
	products *usecase.ProductUseCase
	receipts *inventory.ReceiptUseCase
	sales    *inventory.SaleUseCase
	returns  *inventory.DevolutionUseCase
	adjust   *inventory.AdjustmentUseCase
	lots     *inventory.LotLifecycleUseCase
	queries  *inventory.QueryUseCase
}

func newEnv(t *testing.T, shape sqlite.Shape) *testEnv {
	t.Helper()
	return buildEnv(t, shape, nil)
}

// newCachedEnv igual que newEnv pero con la caché de stock c.
func newCachedEnv(t *testing.T, c inventory.StockCache) *testEnv {
	t.Helper()
	return buildEnv(t, sqlite.ShapeFull, c)
}

func buildEnv(t *testing.T, shape sqlite.Shape, c inventory.StockCache) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, shape))

	// reloj que avanza un segundo por llamada: el historial queda ordenado
	var tick atomic.Int64
	clock := func() time.Time { return clockBase.Add(time.Duration(tick.Add(1)) * time.Second) }

	ledger := inventory.NewLedger(sqlite.NewTxRunner(db), schema.NewDescriptor(sqlite.NewSchemaProber(db)), logger.Nop()).
		WithClock(clock)
	if c != nil {
		ledger.WithCache(c)
	}
	return &testEnv{
		db:       db,
		products: usecase.NewProductUseCase(sqlite.NewProductRepository(db)),
		receipts: inventory.NewReceiptUseCase(ledger),
		sales:    inventory.NewSaleUseCase(ledger),
		returns:  inventory.NewDevolutionUseCase(ledger),
		adjust:   inventory.NewAdjustmentUseCase(ledger),
		lots:     inventory.NewLotLifecycleUseCase(ledger),
		queries:  inventory.NewQueryUseCase(ledger),
	}
}

// forEachShape corre el test contra cada forma de almacenamiento de lots.
func forEachShape(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	for _, shape := range []sqlite.Shape{sqlite.ShapeLegacy, sqlite.ShapeSplit, sqlite.ShapeFull} {
		t.Run(string(shape), func(t *testing.T) {
			fn(t, newEnv(t, shape))
		})
	}
}

func (e *testEnv) product(t *testing.T, code string, minStock int64) string {
	t.Helper()
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{Code: code, Name: "Producto " + code, MinStock: minStock})
	require.NoError(t, err)
	return p.ID
}

type lotSpec struct {
	code     string
	exp      string
	packages int64
	factor   int64
	cost     int64
	price    int64
	tax      string
	discount string
}

// receive registra una compra de una línea y devuelve el id del lote creado.
func (e *testEnv) receive(t *testing.T, productID string, s lotSpec) string {
	t.Helper()
	resp, err := e.receipts.Receive(context.Background(), testActor, dto.PurchaseRequest{
		Supplier: "Droguería Central",
		Lines:    []dto.PurchaseLineRequest{purchaseLine(productID, s)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	return resp.Lines[0].LotID
}

func purchaseLine(productID string, s lotSpec) dto.PurchaseLineRequest {
	return dto.PurchaseLineRequest{
		ProductID:      productID,
		LotCode:        s.code,
		ExpirationDate: s.exp,
		Packages:       s.packages,
		UnitFactor:     s.factor,
		UnitCost:       decimal.NewFromInt(s.cost),
		SalePrice:      decimal.NewFromInt(s.price),
		TaxRate:        dec(s.tax),
		DiscountPct:    dec(s.discount),
	}
}

func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(s)
}

func (e *testEnv) stock(t *testing.T, productID string) int64 {
	t.Helper()
	s, err := e.queries.ProductStock(context.Background(), productID)
	require.NoError(t, err)
	return s.StockActual
}

// lotUnits saldo de cada lote del producto (incluye inactivos) por id.
func (e *testEnv) lotUnits(t *testing.T, productID string) map[string]int64 {
	t.Helper()
	lots, err := e.queries.ListLots(context.Background(), productID, true)
	require.NoError(t, err)
	out := make(map[string]int64, len(lots))
	for _, l := range lots {
		out[l.ID] = l.Units
	}
	return out
}

func unitSale(productID string, qty int64) dto.SaleRequest {
	return dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: productID, Mode: "unit", Quantity: qty}}}
}
