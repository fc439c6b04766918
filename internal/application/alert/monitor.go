package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ inventory.StockObserver = (*Monitor)(nil)

// Monitor emite alertas de stock bajo / agotado al cruzar el umbral, una sola vez por cruce.
// Cada bandera (low, zero) se marca antes de notificar; low se limpia al recuperarse por encima
// del umbral, zero solo con ClearProductAlerts.
type Monitor struct {
	products  repository.ProductRepository
	users     repository.UserRepository
	state     repository.AlertStateStore
	notifier  Notifier
	metrics   Metrics
	threshold int
	log       zerolog.Logger
}

// NewMonitor construye el monitor. threshold <= 0 usa entity.DefaultLowStockThreshold.
func NewMonitor(
	products repository.ProductRepository,
	users repository.UserRepository,
	state repository.AlertStateStore,
	notifier Notifier,
	metrics Metrics,
	threshold int,
	log zerolog.Logger,
) *Monitor {
	if threshold <= 0 {
		threshold = entity.DefaultLowStockThreshold
	}
	return &Monitor{
		products:  products,
		users:     users,
		state:     state,
		notifier:  notifier,
		metrics:   metrics,
		threshold: threshold,
		log:       log,
	}
}

// Threshold umbral de stock bajo vigente.
func (m *Monitor) Threshold() int { return m.threshold }

// MonitorStockChange evalúa el producto tras un cambio de stock. Un producto inexistente se ignora.
func (m *Monitor) MonitorStockChange(ctx context.Context, productID string) error {
	p, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("cargar producto %s: %w", productID, err)
	}
	if p == nil {
		return nil
	}
	return m.evaluate(ctx, p)
}

func (m *Monitor) evaluate(ctx context.Context, p *entity.Product) error {
	switch entity.ClassifyStock(p.StockQuantity, m.threshold) {
	case entity.StockOut:
		return m.alertOnce(ctx, p, entity.AlertZeroSent)
	case entity.StockLow:
		return m.alertOnce(ctx, p, entity.AlertLowSent)
	default:
		return m.state.Clear(ctx, p.ID, entity.AlertLowSent)
	}
}

func (m *Monitor) alertOnce(ctx context.Context, p *entity.Product, flag entity.AlertState) error {
	marked, err := m.state.MarkIfAbsent(ctx, p.ID, flag)
	if err != nil {
		return fmt.Errorf("marcar alerta %s de %s: %w", flag.Key(), p.ID, err)
	}
	if !marked {
		return nil
	}

	recipients, err := m.users.ListByRoles(ctx, entity.AlertRecipientRoles...)
	if err != nil {
		// Sin destinatarios no hubo alerta: se desmarca para reintentar en el próximo cambio.
		if cerr := m.state.Clear(ctx, p.ID, flag); cerr != nil {
			m.log.Warn().Err(cerr).
				Str("product_id", p.ID).
				Str("flag", flag.Key()).
				Msg("no se pudo desmarcar la alerta; no volverá a emitirse hasta limpiarla")
		}
		return fmt.Errorf("listar destinatarios: %w", err)
	}

	title, body, kind := m.message(p, flag)
	for _, u := range recipients {
		if err := m.notifier.Send(ctx, u.ID, title, body); err != nil {
			m.log.Warn().Err(err).Str("product_id", p.ID).Str("user_id", u.ID).Str("kind", kind).Msg("notificación no entregada")
		}
	}
	if m.metrics != nil {
		m.metrics.StockAlert(kind)
	}
	m.log.Info().
		Str("product_id", p.ID).
		Int("stock", p.StockQuantity).
		Str("kind", kind).
		Int("recipients", len(recipients)).
		Msg("alerta de stock emitida")
	return nil
}

func (m *Monitor) message(p *entity.Product, flag entity.AlertState) (title, body, kind string) {
	if flag == entity.AlertZeroSent {
		return "Producto agotado",
			fmt.Sprintf("%s (%s) se quedó sin stock.", p.Name, p.SKU),
			KindZeroStock
	}
	return "Stock bajo",
		fmt.Sprintf("%s (%s) tiene %d unidades (umbral %d).", p.Name, p.SKU, p.StockQuantity, m.threshold),
		KindLowStock
}

// ClearProductAlerts borra ambas banderas (p. ej. al eliminar el producto).
func (m *Monitor) ClearProductAlerts(ctx context.Context, productID string) error {
	return m.state.Clear(ctx, productID, entity.AlertLowSent.With(entity.AlertZeroSent))
}

// CheckAllProducts evalúa todo el catálogo una vez. Sigue ante errores y los devuelve unidos.
func (m *Monitor) CheckAllProducts(ctx context.Context) error {
	products, err := m.products.List(ctx)
	if err != nil {
		return fmt.Errorf("listar productos: %w", err)
	}
	var errs []error
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.evaluate(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("producto %s: %w", p.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Initialize barrido inicial al arrancar.
func (m *Monitor) Initialize(ctx context.Context) error {
	start := time.Now()
	err := m.CheckAllProducts(ctx)
	m.log.Info().Dur("took", time.Since(start)).Err(err).Msg("barrido inicial de alertas")
	return err
}

// RunSweeper repite CheckAllProducts cada interval hasta que ctx termine.
// Recoge cambios de stock hechos fuera del ledger.
func (m *Monitor) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.CheckAllProducts(ctx); err != nil && ctx.Err() == nil {
				m.log.Warn().Err(err).Msg("barrido de alertas con errores")
			}
		}
	}
}
