package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// InventoryHandler expone el libro de inventario: recepciones, ventas, devoluciones, ajustes,
// ciclo de vida de lotes y consultas.
type InventoryHandler struct {
	receipts *inventory.ReceiptUseCase
	sales    *inventory.SaleUseCase
	returns  *inventory.DevolutionUseCase
	adjust   *inventory.AdjustmentUseCase
	lots     *inventory.LotLifecycleUseCase
	queries  *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler con los casos de uso del libro.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{
		receipts: inventory.NewReceiptUseCase(ledger),
		sales:    inventory.NewSaleUseCase(ledger),
		returns:  inventory.NewDevolutionUseCase(ledger),
		adjust:   inventory.NewAdjustmentUseCase(ledger),
		lots:     inventory.NewLotLifecycleUseCase(ledger),
		queries:  inventory.NewQueryUseCase(ledger),
	}
}

// Receive godoc
// @Summary      Registrar recepción de compra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Proveedor y líneas (lote nuevo o reabastecimiento)"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.receipts.Receive(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Sell godoc
// @Summary      Registrar venta
// @Description  Líneas con lote descuentan ese lote; sin lote (modo unidad) se asignan por FIFO.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Líneas de venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.sales.Sell(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Return godoc
// @Summary      Registrar devolución de venta
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DevolutionRequest  true  "Venta y líneas a devolver"
// @Success      201   {object}  dto.DevolutionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/devolutions [post]
func (h *InventoryHandler) Return(c *fiber.Ctx) error {
	var in dto.DevolutionRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.returns.Return(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Delta en unidades mínimas y motivo"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.adjust.Adjust(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Deactivate godoc
// @Summary      Dar de baja un lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del lote"
// @Param        body  body  dto.LotStateRequest  true  "Motivo"
// @Success      200   {object}  dto.LotStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/deactivate [post]
func (h *InventoryHandler) Deactivate(c *fiber.Ctx) error {
	var in dto.LotStateRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.lots.Deactivate(c.UserContext(), GetUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reactivate godoc
// @Summary      Reactivar un lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.LotStateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/reactivate [post]
func (h *InventoryHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.lots.Reactivate(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lotes de un producto en orden FIFO
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id                path   string  true   "ID del producto"
// @Param        include_inactive  query  bool    false  "Incluir lotes dados de baja"
// @Success      200  {array}   dto.LotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	list, err := h.queries.ListLots(c.UserContext(), c.Params("id"), c.QueryBool("include_inactive", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ProductStock godoc
// @Summary      Stock agregado de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	out, err := h.queries.ProductStock(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LotHistory godoc
// @Summary      Historial de un lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Máximo de registros (1-100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.HistoryPage
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/history [get]
func (h *InventoryHandler) LotHistory(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	list, err := h.queries.LotHistory(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.HistoryPage{
		Items: list,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// LowStock godoc
// @Summary      Productos bajo su stock mínimo
// @Description  Incluye cantidad sugerida de pedido y prioridad (1 = más urgente).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReport
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.queries.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LowStockReport{Total: len(list), Products: list})
}

// Expiring godoc
// @Summary      Lotes próximos a vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (por defecto 30)"
// @Success      200  {array}   dto.ExpiringLotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	list, err := h.queries.ExpiringLots(c.UserContext(), c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
