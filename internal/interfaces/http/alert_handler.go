package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
)

// AlertHandler operaciones manuales del monitor de stock (admin / stock_manager).
type AlertHandler struct {
	monitor *alert.Monitor
}

// NewAlertHandler construye el handler.
func NewAlertHandler(monitor *alert.Monitor) *AlertHandler {
	return &AlertHandler{monitor: monitor}
}

// Sweep godoc
// @Summary      Evaluar alertas de todo el catálogo
// @Description  Solo admin y stock_manager.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/sweep [post]
func (h *AlertHandler) Sweep(c *fiber.Ctx) error {
	if err := h.monitor.CheckAllProducts(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "barrido completado", "threshold": h.monitor.Threshold()})
}

// Clear godoc
// @Summary      Borrar la deduplicación de alertas de un producto
// @Description  Solo admin y stock_manager.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/alerts/{productId} [delete]
func (h *AlertHandler) Clear(c *fiber.Ctx) error {
	if err := h.monitor.ClearProductAlerts(c.UserContext(), c.Params("productId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
