package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/schema"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre SQLite en memoria
// ──────────────────────────────────────────────────────────────────────────────

func buildLedgerApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, sqlite.ShapeSplit))

	ledger := inventory.NewLedger(sqlite.NewTxRunner(db), schema.NewDescriptor(sqlite.NewSchemaProber(db)), logger.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger,
		ProductUC: usecase.NewProductUseCase(sqlite.NewProductRepository(db)),
		JWTSecret: testJWTSecret,
	})
	return app
}

// call envía body como JSON con el rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestInventoryAPI_FlujoCompleto(t *testing.T) {
	app := buildLedgerApp(t)

	var product dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
		dto.CreateProductRequest{Code: "ACETA-500", Name: "Acetaminofén 500 mg", MinStock: 5}, &product)
	require.Equal(t, http.StatusCreated, status)

	status = call(t, app, http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
		dto.CreateProductRequest{Code: "ACETA-500", Name: "Duplicado"}, nil)
	assert.Equal(t, http.StatusConflict, status)

	purchase := map[string]any{
		"supplier": "Droguería Central",
		"lines": []map[string]any{{
			"product_id": product.ID, "lot_code": "L-1", "expiration_date": "2027-05-01",
			"packages": 2, "unit_factor": 10, "unit_cost": "3000", "sale_price": "5000", "tax_rate": "0",
		}},
	}
	status = call(t, app, http.MethodPost, "/api/purchases", pkgjwt.RoleCajero, purchase, nil)
	assert.Equal(t, http.StatusForbidden, status, "cajero no registra compras")

	var received dto.PurchaseResponse
	status = call(t, app, http.MethodPost, "/api/purchases", pkgjwt.RoleRegente, purchase, &received)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, received.Lines, 1)
	assert.Equal(t, int64(20), received.Lines[0].StockActual)
	lotID := received.Lines[0].LotID

	var sale dto.SaleResponse
	status = call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleCajero,
		dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: product.ID, LotID: lotID, Mode: "package", Quantity: 1}}}, &sale)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, decimal.NewFromInt(5000).Equal(sale.Total), "total=%s", sale.Total)

	var apiErr dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleCajero,
		dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: product.ID, Quantity: 11}}}, &apiErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", apiErr.Code)

	status = call(t, app, http.MethodPost, "/api/sales", pkgjwt.RoleCajero,
		dto.SaleRequest{Lines: []dto.SaleLineRequest{{ProductID: product.ID, Quantity: 0}}}, &apiErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", apiErr.Code)

	status = call(t, app, http.MethodPost, "/api/devolutions", pkgjwt.RoleCajero, dto.DevolutionRequest{
		SaleID: sale.ID,
		Lines:  []dto.DevolutionLineRequest{{SaleLineID: sale.Lines[0].ID, Quantity: 11}},
	}, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "RETURN_EXCEEDS_OUTSTANDING", apiErr.Code)

	var stock dto.ProductStockDTO
	status = call(t, app, http.MethodGet, "/api/products/"+product.ID+"/stock", pkgjwt.RoleCajero, nil, &stock)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(10), stock.StockActual)

	var lots []dto.LotDTO
	status = call(t, app, http.MethodGet, "/api/products/"+product.ID+"/lots", pkgjwt.RoleCajero, nil, &lots)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, lots, 1)
	assert.Equal(t, int64(1), lots[0].Packages)

	var state dto.LotStateResponse
	status = call(t, app, http.MethodPost, "/api/lots/"+lotID+"/deactivate", pkgjwt.RoleRegente,
		dto.LotStateRequest{Reason: "empaque dañado"}, &state)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, state.Active)
	assert.Equal(t, int64(0), state.StockActual)

	status = call(t, app, http.MethodGet, "/api/lots/no-existe/history", pkgjwt.RoleAdmin, nil, &apiErr)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	var low map[string]any
	status = call(t, app, http.MethodGet, "/api/inventory/low-stock", pkgjwt.RoleAdmin, nil, &low)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, low["total"])
}
