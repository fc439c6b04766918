package alert

import "context"

// Notifier sumidero de notificaciones (fire-and-forget para el núcleo).
type Notifier interface {
	Send(ctx context.Context, targetUserID, title, body string) error
}

// Metrics contador de alertas emitidas por tipo. Puede ser nil.
type Metrics interface {
	StockAlert(kind string)
}

// Tipos de alerta reportados a Metrics.
const (
	KindLowStock  = "low_stock"
	KindZeroStock = "zero_stock"
)
