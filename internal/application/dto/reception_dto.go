package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// ReceptionItemRequest línea de recepción en requests.
type ReceptionItemRequest struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	ExpectedQuantity int    `json:"expected_quantity"`
	ReceivedQuantity *int   `json:"received_quantity,omitempty"`
}

// CreateReceptionRequest body para POST /api/receptions.
type CreateReceptionRequest struct {
	SupplierID      string                 `json:"supplier_id"`
	SupplierName    string                 `json:"supplier_name"`
	ReferenceNumber string                 `json:"reference_number,omitempty"`
	ExpectedDate    *time.Time             `json:"expected_date,omitempty"`
	Status          string                 `json:"status,omitempty"`
	Items           []ReceptionItemRequest `json:"items"`
}

// UpdateReceptionRequest body para PUT /api/receptions/:id. Campos ausentes no cambian.
type UpdateReceptionRequest struct {
	SupplierID      *string                `json:"supplier_id,omitempty"`
	SupplierName    *string                `json:"supplier_name,omitempty"`
	ReferenceNumber *string                `json:"reference_number,omitempty"`
	ExpectedDate    *time.Time             `json:"expected_date,omitempty"`
	Status          *string                `json:"status,omitempty"`
	Items           []ReceptionItemRequest `json:"items,omitempty"`
}

// UpdateItemQuantityRequest body para PUT /api/receptions/:id/items/:productId.
type UpdateItemQuantityRequest struct {
	ReceivedQuantity int `json:"received_quantity"`
}

// ReceptionItemDTO línea de recepción en respuestas.
type ReceptionItemDTO struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	ExpectedQuantity int    `json:"expected_quantity"`
	ReceivedQuantity int    `json:"received_quantity"`
}

// ReceptionDTO recepción en respuestas.
type ReceptionDTO struct {
	ID              string             `json:"id"`
	SupplierID      string             `json:"supplier_id,omitempty"`
	SupplierName    string             `json:"supplier_name"`
	ReferenceNumber string             `json:"reference_number,omitempty"`
	Items           []ReceptionItemDTO `json:"items"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	ExpectedDate    *time.Time         `json:"expected_date,omitempty"`
	ReceivedDate    *time.Time         `json:"received_date,omitempty"`
	ReceivedBy      string             `json:"received_by,omitempty"`
}

// CompletionResponse resultado de POST /api/receptions/:id/complete.
type CompletionResponse struct {
	Reception ReceptionDTO     `json:"reception"`
	Outcomes  []ItemOutcomeDTO `json:"outcomes"`
	Partial   bool             `json:"partial"`
}

func (r ReceptionItemRequest) toInput() reception.ItemInput {
	return reception.ItemInput{
		ProductID:        r.ProductID,
		ProductName:      r.ProductName,
		ExpectedQuantity: r.ExpectedQuantity,
		ReceivedQuantity: r.ReceivedQuantity,
	}
}

func toReceptionItems(in []ReceptionItemRequest) []reception.ItemInput {
	if in == nil {
		return nil
	}
	out := make([]reception.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, it.toInput())
	}
	return out
}

// ToInput adapta el request al caso de uso.
func (r CreateReceptionRequest) ToInput() reception.CreateInput {
	return reception.CreateInput{
		SupplierID:      r.SupplierID,
		SupplierName:    r.SupplierName,
		ReferenceNumber: r.ReferenceNumber,
		ExpectedDate:    r.ExpectedDate,
		Status:          entity.ReceptionStatus(r.Status),
		Items:           toReceptionItems(r.Items),
	}
}

// ToInput adapta el request al caso de uso.
func (r UpdateReceptionRequest) ToInput() reception.UpdateInput {
	in := reception.UpdateInput{
		SupplierID:      r.SupplierID,
		SupplierName:    r.SupplierName,
		ReferenceNumber: r.ReferenceNumber,
		ExpectedDate:    r.ExpectedDate,
		Items:           toReceptionItems(r.Items),
	}
	if r.Status != nil {
		s := entity.ReceptionStatus(*r.Status)
		in.Status = &s
	}
	return in
}

// FromReception mapea una recepción.
func FromReception(r *entity.StockReception) ReceptionDTO {
	items := make([]ReceptionItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ReceptionItemDTO(it))
	}
	return ReceptionDTO{
		ID:              r.ID,
		SupplierID:      r.SupplierID,
		SupplierName:    r.SupplierName,
		ReferenceNumber: r.ReferenceNumber,
		Items:           items,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		ExpectedDate:    r.ExpectedDate,
		ReceivedDate:    r.ReceivedDate,
		ReceivedBy:      r.ReceivedBy,
	}
}

// FromReceptions mapea una lista de recepciones.
func FromReceptions(in []*entity.StockReception) []ReceptionDTO {
	out := make([]ReceptionDTO, 0, len(in))
	for _, r := range in {
		out = append(out, FromReception(r))
	}
	return out
}

// FromCompletion mapea el reporte de cierre.
func FromCompletion(r *reception.CompletionReport) CompletionResponse {
	return CompletionResponse{
		Reception: FromReception(r.Reception),
		Outcomes:  FromOutcomes(r.Outcomes),
		Partial:   r.Err() != nil,
	}
}
