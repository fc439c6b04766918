// Package metrics contadores Prometheus del núcleo de fulfillment sobre un registry propio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/fulfillment-core/internal/application/alert"
	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
)

var (
	_ inventory.Metrics = (*Metrics)(nil)
	_ alert.Metrics     = (*Metrics)(nil)
)

// Metrics implementa inventory.Metrics y alert.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	// LedgerAdjustments ajustes del ledger por resultado (ok, insufficient_stock, not_found, error).
	LedgerAdjustments *prometheus.CounterVec
	// StockAlerts alertas emitidas por tipo (low_stock, zero_stock).
	StockAlerts *prometheus.CounterVec
}

// New crea el registry con los colectores de proceso y de Go más los contadores del dominio.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		LedgerAdjustments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_ledger_adjustments_total",
				Help: "Ajustes de stock solicitados al ledger, por resultado",
			},
			[]string{"result"},
		),
		StockAlerts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_stock_alerts_total",
				Help: "Alertas de stock emitidas, por tipo",
			},
			[]string{"kind"},
		),
	}
}

// LedgerAdjustment incrementa el contador del resultado.
func (m *Metrics) LedgerAdjustment(result string) {
	m.LedgerAdjustments.WithLabelValues(result).Inc()
}

// StockAlert incrementa el contador del tipo de alerta.
func (m *Metrics) StockAlert(kind string) {
	m.StockAlerts.WithLabelValues(kind).Inc()
}

// Handler endpoint de scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registry de Prometheus.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
