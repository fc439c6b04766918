package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
)

var _ alert.Notifier = (*Dispatcher)(nil)

var (
	// ErrQueueFull la cola está llena; la notificación se descarta.
	ErrQueueFull = errors.New("cola de notificaciones llena")
	// ErrStopped el dispatcher ya no acepta notificaciones.
	ErrStopped = errors.New("dispatcher detenido")
)

// DispatcherConfig tamaño de cola, número de workers y tiempo máximo por entrega.
type DispatcherConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

type notification struct {
	targetUserID string
	title        string
	body         string
}

// Dispatcher entrega notificaciones en segundo plano. Send solo encola y vuelve de inmediato,
// así un broker lento no frena al ledger ni a los flujos de bodega.
type Dispatcher struct {
	next  alert.Notifier
	cfg   DispatcherConfig
	queue chan notification
	log   zerolog.Logger

	mu      sync.RWMutex // protege stopped frente al close de queue
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher envuelve next. Valores <= 0 en cfg usan 256 de cola, 1 worker y 5s por entrega.
func NewDispatcher(next alert.Notifier, cfg DispatcherConfig, log zerolog.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	return &Dispatcher{
		next:  next,
		cfg:   cfg,
		queue: make(chan notification, cfg.QueueSize),
		log:   log,
	}
}

// Start lanza los workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.log.Info().Int("workers", d.cfg.Workers).Int("queue_size", d.cfg.QueueSize).Msg("dispatcher de notificaciones iniciado")
}

// Send encola la notificación. No bloquea: ErrQueueFull si no hay espacio.
// El contexto del caller no se propaga a la entrega.
func (d *Dispatcher) Send(_ context.Context, targetUserID, title, body string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- notification{targetUserID: targetUserID, title: title, body: body}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop deja de aceptar notificaciones y espera a que se entregue lo encolado o a que ctx termine.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.log.Info().Msg("dispatcher de notificaciones detenido")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("quedaron %d notificaciones sin entregar: %w", len(d.queue), ctx.Err())
	}
}

// Pending notificaciones en cola.
func (d *Dispatcher) Pending() int { return len(d.queue) }

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		if err := d.deliver(n); err != nil {
			d.log.Warn().Err(err).Str("target_user_id", n.targetUserID).Str("title", n.title).Msg("notificación no entregada")
		}
	}
}

func (d *Dispatcher) deliver(n notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic en notifier: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()
	return d.next.Send(ctx, n.targetUserID, n.title, n.body)
}
