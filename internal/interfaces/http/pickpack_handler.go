package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-core/internal/application/dto"
	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// PickPackHandler cola de preparación y despacho (protegido).
type PickPackHandler struct {
	uc *pickpack.PickPackUseCase
}

// NewPickPackHandler construye el handler.
func NewPickPackHandler(uc *pickpack.PickPackUseCase) *PickPackHandler {
	return &PickPackHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir la preparación de una orden
// @Tags         pick-pack
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePickPackRequest  true  "order_id, order_number e ítems; priority por defecto normal"
// @Success      201  {object}  dto.PickPackOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack [post]
func (h *PickPackHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePickPackRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.Create(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPickPackOrder(o))
}

// List godoc
// @Summary      Listar órdenes en orden de cola
// @Description  status tiene prioridad sobre assignee.
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending, picking, packing, ready_to_ship o shipped"
// @Param        assignee  query  string  false  "ID del bodeguero"
// @Success      200  {array}  dto.PickPackOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pick-pack [get]
func (h *PickPackHandler) List(c *fiber.Ctx) error {
	var (
		out []*entity.PickPackOrder
		err error
	)
	switch {
	case c.Query("status") != "":
		out, err = h.uc.GetByStatus(c.UserContext(), entity.PickPackStatus(c.Query("status")))
	case c.Query("assignee") != "":
		out, err = h.uc.GetByAssignee(c.UserContext(), c.Query("assignee"))
	default:
		out, err = h.uc.GetAll(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickPackOrders(out))
}

// Pending godoc
// @Summary      Órdenes no despachadas
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/pending [get]
func (h *PickPackHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.GetPendingOrders(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickPackOrders(out))
}

// Search godoc
// @Summary      Buscar órdenes
// @Description  Por número de orden o cliente.
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Texto a buscar"
// @Success      200  {array}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/search [get]
func (h *PickPackHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickPackOrders(out))
}

// GetByID godoc
// @Summary      Obtener una orden
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Success      200  {object}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id} [get]
func (h *PickPackHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if o == nil {
		return notFound(c, "orden de bodega")
	}
	return c.JSON(dto.FromPickPackOrder(o))
}

// Delete godoc
// @Summary      Eliminar una orden no despachada
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id} [delete]
func (h *PickPackHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Pick godoc
// @Summary      Marcar ítem recogido
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id}/items/{productId}/pick [post]
func (h *PickPackHandler) Pick(c *fiber.Ctx) error {
	return h.item(c, h.uc.MarkItemPicked)
}

// Pack godoc
// @Summary      Marcar ítem empacado
// @Description  Empacar exige que el ítem esté recogido.
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id}/items/{productId}/pack [post]
func (h *PickPackHandler) Pack(c *fiber.Ctx) error {
	return h.item(c, h.uc.MarkItemPacked)
}

// Reset godoc
// @Summary      Reiniciar un ítem mal recogido
// @Tags         pick-pack
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PickPackOrderDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id}/items/{productId}/reset [post]
func (h *PickPackHandler) Reset(c *fiber.Ctx) error {
	return h.item(c, h.uc.ResetItem)
}

func (h *PickPackHandler) item(c *fiber.Ctx, op func(ctx context.Context, id, productID string) (*entity.PickPackOrder, error)) error {
	o, err := op(c.UserContext(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickPackOrder(o))
}

// Assign godoc
// @Summary      Asignar la orden a un bodeguero
// @Description  Sin user_id se asigna al operador del token. Una orden pendiente pasa a picking.
// @Tags         pick-pack
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Param        body  body  dto.AssignOrderRequest  false  "user_id opcional"
// @Success      200  {object}  dto.PickPackOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id}/assign [post]
func (h *PickPackHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if in.UserID == "" {
		in.UserID = GetUserID(c)
	}
	o, err := h.uc.AssignOrder(c.UserContext(), c.Params("id"), in.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickPackOrder(o))
}

// Ship godoc
// @Summary      Despachar una orden lista
// @Description  Descuenta los ítems empacados. 207 si algún ítem no se descontó; 502 si la orden externa no se pudo actualizar.
// @Tags         pick-pack
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Param        body  body  dto.ShipOrderRequest  false  "tracking_number opcional"
// @Success      200  {object}  dto.ShipmentResponse
// @Success      207  {object}  dto.ShipmentResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/pick-pack/{id}/ship [post]
func (h *PickPackHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	report, err := h.uc.MarkAsShipped(c.UserContext(), c.Params("id"), in.TrackingNumber, GetUserID(c))
	if err != nil && report == nil {
		return writeError(c, err)
	}
	resp := dto.FromShipment(report)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"code":     "ORDER_UPDATE_FAILED",
			"message":  err.Error(),
			"shipment": resp,
		})
	}
	return c.Status(multiStatus(resp.Partial, fiber.StatusOK)).JSON(resp)
}

// PackingSlip godoc
// @Summary      Hoja de empaque en PDF
// @Tags         pick-pack
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden pick/pack"
// @Success      200  {file}  file
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/pick-pack/{id}/packing-slip [get]
func (h *PickPackHandler) PackingSlip(c *fiber.Ctx) error {
	pdf, err := h.uc.PackingSlip(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="packing-slip-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}
