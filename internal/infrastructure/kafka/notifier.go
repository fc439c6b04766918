// Package kafka sumidero de notificaciones sobre un tópico Kafka, protegido con circuit breaker.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
	"github.com/jhoicas/fulfillment-core/pkg/config"
)

var _ alert.Notifier = (*Notifier)(nil)

// MessageWriter lo que el notifier necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notification payload publicado por cada alerta.
type Notification struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	TargetUserID string    `json:"target_user_id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotificationType valor de Notification.Type y del header "type".
const NotificationType = "stock_alert"

// Notifier publica una notificación por destinatario; la key del mensaje es el usuario.
type Notifier struct {
	writer MessageWriter
	cb     *gobreaker.CircuitBreaker
	log    zerolog.Logger
	now    func() time.Time
}

// NewWriter crea el writer síncrono del tópico de alertas.
func NewWriter(cfg config.KafkaConfig) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
		Async:        false,
	}
}

// NewNotifier envuelve writer con un circuit breaker: tras 5 fallos consecutivos abre por 30s.
func NewNotifier(writer MessageWriter, log zerolog.Logger) *Notifier {
	settings := gobreaker.Settings{
		Name:        "kafka-notifier",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cambio de estado del circuit breaker")
		},
	}
	return &Notifier{writer: writer, cb: gobreaker.NewCircuitBreaker(settings), log: log, now: time.Now}
}

// Send publica la notificación. Con el breaker abierto falla de inmediato con gobreaker.ErrOpenState.
func (n *Notifier) Send(ctx context.Context, targetUserID, title, body string) error {
	msg := Notification{
		ID:           uuid.NewString(),
		Type:         NotificationType,
		TargetUserID: targetUserID,
		Title:        title,
		Body:         body,
		CreatedAt:    n.now().UTC(),
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	_, err = n.cb.Execute(func() (interface{}, error) {
		return nil, n.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(targetUserID),
			Value: value,
			Headers: []kafkago.Header{
				{Key: "type", Value: []byte(NotificationType)},
				{Key: "id", Value: []byte(msg.ID)},
			},
			Time: msg.CreatedAt,
		})
	})
	if err != nil {
		return fmt.Errorf("publicar notificación a %s: %w", targetUserID, err)
	}
	return nil
}

// State estado actual del breaker.
func (n *Notifier) State() gobreaker.State { return n.cb.State() }

// Close cierra el writer.
func (n *Notifier) Close() error { return n.writer.Close() }
