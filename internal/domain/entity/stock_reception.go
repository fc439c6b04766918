package entity

import "time"

// ReceptionStatus estado de una recepción de mercancía de proveedor.
type ReceptionStatus string

const (
	ReceptionPending    ReceptionStatus = "pending"
	ReceptionInProgress ReceptionStatus = "in_progress"
	ReceptionCompleted  ReceptionStatus = "completed"
	ReceptionCancelled  ReceptionStatus = "cancelled"
)

// IsValid verifica que el estado sea uno de los conocidos.
func (s ReceptionStatus) IsValid() bool {
	switch s {
	case ReceptionPending, ReceptionInProgress, ReceptionCompleted, ReceptionCancelled:
		return true
	}
	return false
}

// IsOpen pending o in_progress: la recepción todavía se puede contar y editar.
func (s ReceptionStatus) IsOpen() bool {
	return s == ReceptionPending || s == ReceptionInProgress
}

// CanTransitionTo transiciones permitidas; completed y cancelled son terminales.
func (s ReceptionStatus) CanTransitionTo(target ReceptionStatus) bool {
	switch s {
	case ReceptionPending:
		return target == ReceptionInProgress || target == ReceptionCompleted || target == ReceptionCancelled
	case ReceptionInProgress:
		return target == ReceptionCompleted || target == ReceptionCancelled
	}
	return false
}

// StockReceptionItem línea de la recepción. ReceivedQuantity arranca igual a ExpectedQuantity
// y la corrige el conteo físico del bodeguero; es lo que entra al ledger.
type StockReceptionItem struct {
	ProductID        string
	ProductName      string
	ExpectedQuantity int
	ReceivedQuantity int
}

// StockReception un envío entrante de proveedor.
type StockReception struct {
	ID              string
	SupplierID      string
	SupplierName    string
	ReferenceNumber string // opcional, número del proveedor
	Items           []StockReceptionItem
	Status          ReceptionStatus
	CreatedAt       time.Time
	ExpectedDate    *time.Time
	ReceivedDate    *time.Time
	ReceivedBy      string
}

// Item devuelve el ítem del producto indicado, o nil.
func (r *StockReception) Item(productID string) *StockReceptionItem {
	for i := range r.Items {
		if r.Items[i].ProductID == productID {
			return &r.Items[i]
		}
	}
	return nil
}

// PendingSortKey fecha usada para ordenar pendientes: ExpectedDate, o CreatedAt si no hay.
func (r *StockReception) PendingSortKey() time.Time {
	if r.ExpectedDate != nil {
		return *r.ExpectedDate
	}
	return r.CreatedAt
}

// Clone copia profunda (los stores en memoria nunca entregan punteros compartidos).
func (r *StockReception) Clone() *StockReception {
	if r == nil {
		return nil
	}
	c := *r
	c.Items = append([]StockReceptionItem(nil), r.Items...)
	c.ExpectedDate = cloneTime(r.ExpectedDate)
	c.ReceivedDate = cloneTime(r.ReceivedDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
