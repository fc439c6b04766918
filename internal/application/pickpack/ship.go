package pickpack

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// ShipmentReport resultado de MarkAsShipped: la orden despachada y el descuento de stock por ítem.
type ShipmentReport struct {
	Order    *entity.PickPackOrder
	Outcomes []domain.ItemOutcome
}

// Err *domain.PartialFailureError si algún ítem no pudo descontarse del ledger.
func (r *ShipmentReport) Err() error {
	if r == nil {
		return nil
	}
	return domain.NewPartialFailure("despachar orden "+r.Order.OrderNumber, r.Outcomes)
}

// MarkAsShipped despacha una orden ready_to_ship: fija shipped con una escritura condicional (entre
// procesos concurrentes solo uno la consigue, los demás reciben ErrNotReady), descuenta cada ítem
// empacado del ledger (best effort, las fallas quedan en el reporte) y actualiza la orden externa.
// Si esto último falla se devuelven ambos: el reporte y el error.
func (uc *PickPackUseCase) MarkAsShipped(ctx context.Context, id, trackingNumber, actor string) (*ShipmentReport, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.ErrInvalidInput
	}
	defer uc.locks.Lock(id)()

	o, err := uc.repo.ClaimShipment(ctx, id, trackingNumber, uc.now())
	if err != nil {
		return nil, err
	}
	if o == nil {
		cur, err := uc.mustGet(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: orden %s en estado %s", domain.ErrNotReady, cur.ID, cur.Status)
	}

	reason := "Shipped Order: " + o.OrderNumber
	outcomes := make([]domain.ItemOutcome, 0, len(o.Items))
	for _, it := range o.Items {
		if !it.Packed {
			continue
		}
		out := domain.ItemOutcome{ProductID: it.ProductID, Change: -it.Quantity}
		res, err := uc.ledger.AdjustStock(ctx, it.ProductID, -it.Quantity, reason, actor)
		if err != nil {
			out.Err = err
			uc.log.Warn().Err(err).
				Str("order_number", o.OrderNumber).
				Str("product_id", it.ProductID).
				Int("quantity", it.Quantity).
				Msg("ítem despachado no se descontó del inventario")
		} else {
			out.EntryID = res.Entry.ID
		}
		outcomes = append(outcomes, out)
	}
	report := &ShipmentReport{Order: o, Outcomes: outcomes}

	if err := uc.orders.UpdateStatus(ctx, o.OrderID, OrderStatusShipped, trackingNumber); err != nil {
		uc.log.Error().Err(err).Str("order_id", o.OrderID).Msg("no se pudo marcar la orden como despachada")
		return report, fmt.Errorf("actualizar orden %s: %w", o.OrderID, err)
	}
	uc.log.Info().Str("order_number", o.OrderNumber).Str("tracking", trackingNumber).Msg("orden despachada")
	return report, nil
}
