package entity

// DefaultLowStockThreshold umbral de stock bajo (inclusive).
const DefaultLowStockThreshold = 10

// AlertState estado de deduplicación de alertas por producto.
// Son banderas independientes: una alerta de agotado y una posterior de stock bajo
// (tras reposición parcial) pueden estar vigentes a la vez.
type AlertState uint8

const (
	AlertNone     AlertState = 0
	AlertLowSent  AlertState = 1 << 0
	AlertZeroSent AlertState = 1 << 1
)

// Has indica si la bandera f está marcada.
func (s AlertState) Has(f AlertState) bool { return s&f == f && f != AlertNone }

// With devuelve el estado con f marcada.
func (s AlertState) With(f AlertState) AlertState { return s | f }

// Without devuelve el estado sin f.
func (s AlertState) Without(f AlertState) AlertState { return s &^ f }

// Key sufijo usado por los stores externos ("low" / "zero").
func (s AlertState) Key() string {
	switch s {
	case AlertLowSent:
		return "low"
	case AlertZeroSent:
		return "zero"
	}
	return ""
}

// StockLevel clasificación de una cantidad frente al umbral.
type StockLevel int

const (
	StockHealthy StockLevel = iota
	StockLow
	StockOut
)

// ClassifyStock 0 -> agotado; 1..threshold -> bajo; mayor -> sano.
func ClassifyStock(quantity, threshold int) StockLevel {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= threshold:
		return StockLow
	default:
		return StockHealthy
	}
}
