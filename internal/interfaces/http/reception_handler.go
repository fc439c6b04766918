package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-core/internal/application/dto"
	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// ReceptionHandler recepciones de mercancía de proveedor (protegido).
type ReceptionHandler struct {
	uc *reception.StockReceptionUseCase
}

// NewReceptionHandler construye el handler.
func NewReceptionHandler(uc *reception.StockReceptionUseCase) *ReceptionHandler {
	return &ReceptionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar una recepción de proveedor
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceptionRequest  true  "supplier_name e ítems; received_quantity omitido = expected_quantity"
// @Success      201  {object}  dto.ReceptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions [post]
func (h *ReceptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.Add(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromReception(r))
}

// List godoc
// @Summary      Listar recepciones
// @Description  status tiene prioridad sobre supplier_id.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, in_progress, completed o cancelled"
// @Param        supplier_id  query  string  false  "Filtra por proveedor"
// @Success      200  {array}  dto.ReceptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/receptions [get]
func (h *ReceptionHandler) List(c *fiber.Ctx) error {
	var (
		out []*entity.StockReception
		err error
	)
	switch {
	case c.Query("status") != "":
		out, err = h.uc.ListByStatus(c.UserContext(), entity.ReceptionStatus(c.Query("status")))
	case c.Query("supplier_id") != "":
		out, err = h.uc.ListBySupplier(c.UserContext(), c.Query("supplier_id"))
	default:
		out, err = h.uc.GetAll(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReceptions(out))
}

// Pending godoc
// @Summary      Recepciones abiertas
// @Description  Ordenadas por fecha esperada.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReceptionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/receptions/pending [get]
func (h *ReceptionHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.GetPending(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReceptions(out))
}

// Search godoc
// @Summary      Buscar recepciones
// @Description  Por proveedor o número de referencia, sin distinguir mayúsculas.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Texto a buscar"
// @Success      200  {array}  dto.ReceptionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/receptions/search [get]
func (h *ReceptionHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReceptions(out))
}

// GetByID godoc
// @Summary      Obtener una recepción
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceptionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id} [get]
func (h *ReceptionHandler) GetByID(c *fiber.Ctx) error {
	r, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if r == nil {
		return notFound(c, "recepción")
	}
	return c.JSON(dto.FromReception(r))
}

// Update godoc
// @Summary      Editar una recepción abierta
// @Description  Campos ausentes no cambian; items reemplaza todas las líneas.
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Param        body  body  dto.UpdateReceptionRequest  true  "Cambios parciales"
// @Success      200  {object}  dto.ReceptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id} [put]
func (h *ReceptionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.Update(c.UserContext(), c.Params("id"), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReception(r))
}

// Delete godoc
// @Summary      Eliminar una recepción
// @Description  Las completadas no se eliminan.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id} [delete]
func (h *ReceptionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateItemQuantity godoc
// @Summary      Registrar conteo físico de un ítem
// @Description  La primera corrección pasa la recepción a in_progress.
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Param        productId  path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateItemQuantityRequest  true  "received_quantity >= 0"
// @Success      200  {object}  dto.ReceptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/items/{productId} [put]
func (h *ReceptionHandler) UpdateItemQuantity(c *fiber.Ctx) error {
	var in dto.UpdateItemQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.UpdateItemQuantity(c.UserContext(), c.Params("id"), c.Params("productId"), in.ReceivedQuantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReception(r))
}

// Complete godoc
// @Summary      Completar una recepción
// @Description  Ingresa cada ítem al inventario. 207 si algún ítem no ingresó.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.CompletionResponse
// @Success      207  {object}  dto.CompletionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/complete [post]
func (h *ReceptionHandler) Complete(c *fiber.Ctx) error {
	report, err := h.uc.CompleteReception(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.FromCompletion(report)
	return c.Status(multiStatus(resp.Partial, fiber.StatusOK)).JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar una recepción
// @Description  No toca el inventario.
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceptionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/cancel [post]
func (h *ReceptionHandler) Cancel(c *fiber.Ctx) error {
	r, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromReception(r))
}
