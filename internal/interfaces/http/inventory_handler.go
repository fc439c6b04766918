package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-core/internal/application/dto"
	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
)

// InventoryHandler ajustes manuales y consulta del ledger (protegido).
type InventoryHandler struct {
	ledger *inventory.StockLedger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Adjust godoc
// @Summary      Ajustar stock de un producto
// @Description  Solo admin y stock_manager. El operador del token queda como performed_by.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, change (positivo entra, negativo sale), reason"
// @Success      201  {object}  dto.AdjustStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.AdjustStock(c.UserContext(), in.ProductID, in.Change, in.Reason, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromLedgerResult(res))
}

// Logs godoc
// @Summary      Consultar el log de inventario
// @Description  Más recientes primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtra por producto"
// @Param        limit  query  int  false  "Tamaño de página (1-100, por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.InventoryLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/logs [get]
func (h *InventoryHandler) Logs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	entries, err := h.ledger.GetLogs(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	items, meta := dto.Paginate(dto.FromInventoryLogs(entries), page)
	return c.JSON(dto.InventoryLogListResponse{Items: items, Page: meta})
}
