package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// PickPackItemRequest línea en POST /api/pick-pack.
type PickPackItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location,omitempty"`
}

// CreatePickPackRequest body para POST /api/pick-pack.
type CreatePickPackRequest struct {
	OrderID         string                `json:"order_id"`
	OrderNumber     string                `json:"order_number"`
	CustomerName    string                `json:"customer_name"`
	ShippingAddress string                `json:"shipping_address"`
	Priority        string                `json:"priority,omitempty"`
	Items           []PickPackItemRequest `json:"items"`
}

// AssignOrderRequest body para POST /api/pick-pack/:id/assign. Vacío = el usuario autenticado.
type AssignOrderRequest struct {
	UserID string `json:"user_id"`
}

// ShipOrderRequest body para POST /api/pick-pack/:id/ship.
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// PickPackItemDTO línea en respuestas.
type PickPackItemDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location,omitempty"`
	Picked      bool   `json:"picked"`
	Packed      bool   `json:"packed"`
}

// PickPackOrderDTO orden en respuestas.
type PickPackOrderDTO struct {
	ID              string            `json:"id"`
	OrderID         string            `json:"order_id"`
	OrderNumber     string            `json:"order_number"`
	CustomerName    string            `json:"customer_name"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []PickPackItemDTO `json:"items"`
	Status          string            `json:"status"`
	Priority        string            `json:"priority"`
	AssignedTo      string            `json:"assigned_to,omitempty"`
	TrackingNumber  string            `json:"tracking_number,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	PickedAt        *time.Time        `json:"picked_at,omitempty"`
	PackedAt        *time.Time        `json:"packed_at,omitempty"`
	ShippedAt       *time.Time        `json:"shipped_at,omitempty"`
}

// ShipmentResponse resultado de POST /api/pick-pack/:id/ship.
type ShipmentResponse struct {
	Order    PickPackOrderDTO `json:"order"`
	Outcomes []ItemOutcomeDTO `json:"outcomes"`
	Partial  bool             `json:"partial"`
}

// ToInput adapta el request al caso de uso.
func (r CreatePickPackRequest) ToInput() pickpack.CreateInput {
	items := make([]pickpack.ItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, pickpack.ItemInput(it))
	}
	return pickpack.CreateInput{
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		CustomerName:    r.CustomerName,
		ShippingAddress: r.ShippingAddress,
		Priority:        entity.Priority(r.Priority),
		Items:           items,
	}
}

// FromPickPackOrder mapea una orden.
func FromPickPackOrder(o *entity.PickPackOrder) PickPackOrderDTO {
	items := make([]PickPackItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PickPackItemDTO(it))
	}
	return PickPackOrderDTO{
		ID:              o.ID,
		OrderID:         o.OrderID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		Status:          string(o.Status),
		Priority:        string(o.Priority),
		AssignedTo:      o.AssignedTo,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
		PickedAt:        o.PickedAt,
		PackedAt:        o.PackedAt,
		ShippedAt:       o.ShippedAt,
	}
}

// FromPickPackOrders mapea una lista de órdenes.
func FromPickPackOrders(in []*entity.PickPackOrder) []PickPackOrderDTO {
	out := make([]PickPackOrderDTO, 0, len(in))
	for _, o := range in {
		out = append(out, FromPickPackOrder(o))
	}
	return out
}

// FromShipment mapea el reporte de despacho.
func FromShipment(r *pickpack.ShipmentReport) ShipmentResponse {
	return ShipmentResponse{
		Order:    FromPickPackOrder(r.Order),
		Outcomes: FromOutcomes(r.Outcomes),
		Partial:  r.Err() != nil,
	}
}
