// Package notify sumideros de notificación sin broker y entrega asíncrona.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
)

var _ alert.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada notificación en el log. Se usa cuando KAFKA_BROKERS está vacío.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send registra la notificación a nivel info.
func (n *LogNotifier) Send(_ context.Context, targetUserID, title, body string) error {
	n.log.Info().Str("target_user_id", targetUserID).Str("title", title).Str("body", body).Msg("notificación")
	return nil
}
