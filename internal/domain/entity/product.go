package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (dueño externo). El núcleo solo lee el registro
// y escribe StockQuantity, siempre a través del ledger de inventario.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Price         decimal.Decimal // precio de venta; el núcleo no lo usa para cálculos
	StockQuantity int             // nunca negativo
	UpdatedAt     time.Time
}
