package reception

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// CompletionReport resultado de CompleteReception: la recepción cerrada y el resultado por ítem.
type CompletionReport struct {
	Reception *entity.StockReception
	Outcomes  []domain.ItemOutcome
}

// Err *domain.PartialFailureError si algún ítem falló en el ledger; nil si todos entraron.
func (r *CompletionReport) Err() error {
	if r == nil {
		return nil
	}
	return domain.NewPartialFailure("completar recepción "+r.Reception.ID, r.Outcomes)
}

// CompleteReception cierra la recepción y luego ingresa al ledger la cantidad recibida de cada ítem, en orden.
// El cierre es una escritura condicional en el repositorio: entre procesos concurrentes solo uno lo
// consigue y los demás reciben ErrAlreadyCompleted. No es atómico entre ítems: un ítem que falla queda
// en el reporte y se sigue con el resto. El caller revisa report.Err().
func (uc *StockReceptionUseCase) CompleteReception(ctx context.Context, id, receivedBy string) (*CompletionReport, error) {
	if receivedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	defer uc.locks.Lock(id)()

	r, err := uc.repo.ClaimCompletion(ctx, id, receivedBy, uc.now())
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, uc.claimRejected(ctx, id)
	}

	reason := fmt.Sprintf("Stock reception %s from %s", r.ID, r.SupplierName)
	outcomes := make([]domain.ItemOutcome, 0, len(r.Items))
	for _, it := range r.Items {
		out := domain.ItemOutcome{ProductID: it.ProductID, Change: it.ReceivedQuantity}
		res, err := uc.ledger.AdjustStock(ctx, it.ProductID, it.ReceivedQuantity, reason, receivedBy)
		if err != nil {
			out.Err = err
			uc.log.Warn().Err(err).
				Str("reception_id", r.ID).
				Str("product_id", it.ProductID).
				Int("quantity", it.ReceivedQuantity).
				Msg("ítem de recepción no ingresó al inventario")
		} else {
			out.EntryID = res.Entry.ID
		}
		outcomes = append(outcomes, out)
	}

	uc.log.Info().Str("reception_id", r.ID).Int("items", len(r.Items)).Msg("recepción completada")
	return &CompletionReport{Reception: r, Outcomes: outcomes}, nil
}

// claimRejected traduce un cierre que no afectó filas al error del estado actual.
func (uc *StockReceptionUseCase) claimRejected(ctx context.Context, id string) error {
	r, err := uc.mustGet(ctx, id)
	if err != nil {
		return err
	}
	switch r.Status {
	case entity.ReceptionCompleted:
		return domain.ErrAlreadyCompleted
	case entity.ReceptionCancelled:
		return domain.ErrNotEditable
	}
	return fmt.Errorf("recepción %s en estado %s: %w", id, r.Status, domain.ErrConflict)
}
