package dto

import (
	"time"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Change    int    `json:"change"`
	Reason    string `json:"reason"`
}

// InventoryLogDTO asiento del ledger.
type InventoryLogDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Change      int       `json:"change"`
	Reason      string    `json:"reason"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	Entry            InventoryLogDTO `json:"entry"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
}

// InventoryLogListResponse página de asientos, más recientes primero.
type InventoryLogListResponse struct {
	Items []InventoryLogDTO `json:"items"`
	Page  PageResponse      `json:"page"`
}

// FromInventoryLog mapea un asiento.
func FromInventoryLog(e *entity.InventoryLogEntry) InventoryLogDTO {
	return InventoryLogDTO{
		ID:          e.ID,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Change:      e.Change,
		Reason:      e.Reason,
		PerformedBy: e.PerformedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// FromInventoryLogs mapea una lista de asientos.
func FromInventoryLogs(in []*entity.InventoryLogEntry) []InventoryLogDTO {
	out := make([]InventoryLogDTO, 0, len(in))
	for _, e := range in {
		out = append(out, FromInventoryLog(e))
	}
	return out
}

// FromLedgerResult mapea el resultado del ledger.
func FromLedgerResult(r *inventory.LedgerResult) AdjustStockResponse {
	return AdjustStockResponse{
		Entry:            FromInventoryLog(r.Entry),
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
	}
}
