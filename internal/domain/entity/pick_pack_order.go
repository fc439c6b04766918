package entity

import (
	"sort"
	"time"
)

// PickPackStatus estado de la preparación de una orden en bodega.
type PickPackStatus string

const (
	PickPackPending     PickPackStatus = "pending"
	PickPackPicking     PickPackStatus = "picking"
	PickPackPacking     PickPackStatus = "packing"
	PickPackReadyToShip PickPackStatus = "ready_to_ship"
	PickPackShipped     PickPackStatus = "shipped"
)

// IsValid verifica que el estado sea uno de los conocidos.
func (s PickPackStatus) IsValid() bool {
	switch s {
	case PickPackPending, PickPackPicking, PickPackPacking, PickPackReadyToShip, PickPackShipped:
		return true
	}
	return false
}

// Priority prioridad de atención en la cola de bodega.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank menor = se atiende antes. Valores desconocidos van al final.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// IsValid verifica que la prioridad sea una de las conocidas.
func (p Priority) IsValid() bool { return p.Rank() < 4 }

// PickPackItem línea a recoger (pick) y empacar (pack).
type PickPackItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Location    string // bin/estante, opcional
	Picked      bool
	Packed      bool
}

// PickPackOrder preparación en bodega de una orden de cliente (la orden vive en el componente externo).
type PickPackOrder struct {
	ID              string
	OrderID         string
	OrderNumber     string
	CustomerName    string
	ShippingAddress string
	Items           []PickPackItem
	Status          PickPackStatus
	Priority        Priority
	AssignedTo      string
	TrackingNumber  string
	CreatedAt       time.Time
	PickedAt        *time.Time
	PackedAt        *time.Time
	ShippedAt       *time.Time
}

// DeriveStatus única función de transición: el estado se calcula desde las banderas de los ítems.
// shipped nunca se deriva; lo fija MarkAsShipped y a partir de ahí es terminal.
//
//	todos picked y packed -> ready_to_ship
//	todos picked          -> packing
//	alguno picked o asignada -> picking
//	resto                 -> pending
func DeriveStatus(items []PickPackItem, assigned bool) PickPackStatus {
	if len(items) == 0 {
		if assigned {
			return PickPackPicking
		}
		return PickPackPending
	}
	allPicked, allPacked, anyPicked := true, true, false
	for _, it := range items {
		if it.Picked {
			anyPicked = true
		} else {
			allPicked = false
		}
		if !it.Packed {
			allPacked = false
		}
	}
	switch {
	case allPicked && allPacked:
		return PickPackReadyToShip
	case allPicked:
		return PickPackPacking
	case anyPicked || assigned:
		return PickPackPicking
	default:
		return PickPackPending
	}
}

// IsShipped indica si la orden ya está en el estado terminal.
func (o *PickPackOrder) IsShipped() bool { return o.Status == PickPackShipped }

// Item devuelve el ítem del producto indicado, o nil.
func (o *PickPackOrder) Item(productID string) *PickPackItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}

// Recompute aplica DeriveStatus y fija PickedAt/PackedAt la primera vez que se cumplen.
// No hace nada sobre una orden despachada.
func (o *PickPackOrder) Recompute(now time.Time) {
	if o.IsShipped() {
		return
	}
	o.Status = DeriveStatus(o.Items, o.AssignedTo != "")
	if len(o.Items) == 0 {
		return
	}
	allPicked, allPacked := true, true
	for _, it := range o.Items {
		allPicked = allPicked && it.Picked
		allPacked = allPacked && it.Packed
	}
	if allPicked && o.PickedAt == nil {
		t := now
		o.PickedAt = &t
	}
	if allPacked && o.PackedAt == nil {
		t := now
		o.PackedAt = &t
	}
}

// Clone copia profunda.
func (o *PickPackOrder) Clone() *PickPackOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]PickPackItem(nil), o.Items...)
	c.PickedAt = cloneTime(o.PickedAt)
	c.PackedAt = cloneTime(o.PackedAt)
	c.ShippedAt = cloneTime(o.ShippedAt)
	return &c
}

// SortQueue ordena por prioridad (urgent primero) y luego por CreatedAt ascendente.
// Es la disciplina de cola de la que toman trabajo los bodegueros.
func SortQueue(orders []*PickPackOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
