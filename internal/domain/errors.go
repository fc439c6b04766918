package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Precondiciones de las máquinas de estado.
	ErrAlreadyCompleted  = errors.New("la recepción ya fue completada")
	ErrNotEditable       = errors.New("la recepción ya no admite cambios")
	ErrNotReady          = errors.New("la orden no está lista para despacho")
	ErrAlreadyShipped    = errors.New("la orden ya fue despachada")
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// ErrPartialFailure lo envuelve PartialFailureError: uno o más ítems fallaron en el ledger.
	ErrPartialFailure = errors.New("fallo parcial en ajustes de inventario")
)

// ItemOutcome resultado del ajuste de ledger de un ítem dentro de una operación multi-ítem.
type ItemOutcome struct {
	ProductID string `json:"product_id"`
	Change    int    `json:"change"`
	EntryID   string `json:"entry_id,omitempty"`
	Err       error  `json:"-"`
}

// Failed indica si el ajuste de este ítem falló.
func (o ItemOutcome) Failed() bool { return o.Err != nil }

// PartialFailureError agrupa los ítems que fallaron en CompleteReception / MarkAsShipped.
type PartialFailureError struct {
	Operation string
	Failures  []ItemOutcome
}

func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.ProductID, f.Err))
	}
	return fmt.Sprintf("%s: %d ítem(s) fallaron [%s]", e.Operation, len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap permite errors.Is(err, ErrPartialFailure).
func (e *PartialFailureError) Unwrap() error { return ErrPartialFailure }

// NewPartialFailure devuelve *PartialFailureError si algún outcome falló; nil en otro caso.
func NewPartialFailure(operation string, outcomes []ItemOutcome) error {
	var failed []ItemOutcome
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &PartialFailureError{Operation: operation, Failures: failed}
}
