package entity

import "time"

// InventoryLogEntry es un asiento inmutable del ledger de inventario.
// Change positivo = entrada (recepción), negativo = salida (despacho/consumo), 0 = acción sin movimiento.
// La suma de Change por producto reconstruye su StockQuantity.
type InventoryLogEntry struct {
	ID          string
	ProductID   string
	ProductName string // snapshot al momento del ajuste
	Change      int
	Reason      string
	PerformedBy string
	CreatedAt   time.Time
}
