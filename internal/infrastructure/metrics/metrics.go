// Package metrics expone métricas Prometheus del API y del agregador RFID.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
)

// Metrics agrupa los collectors sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
	scansProcessed *prometheus.CounterVec
}

var _ ports.ScanMetrics = (*Metrics)(nil)

// New crea las métricas del servicio indicado (api, rfid-consumer).
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "wms",
			Name:        "http_requests_total",
			Help:        "Peticiones HTTP por método, ruta y status.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "wms",
			Name:        "http_request_duration_seconds",
			Help:        "Duración de las peticiones HTTP.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "wms",
			Name:        "http_requests_in_flight",
			Help:        "Peticiones HTTP en curso.",
			ConstLabels: constLabels,
		}),
		scansProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "wms",
			Name:        "rfid_scans_processed_total",
			Help:        "Lecturas RFID procesadas por topic y resultado.",
			ConstLabels: constLabels,
		}, []string{"topic", "outcome"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.httpInFlight, m.scansProcessed)
	return m
}

// ScanProcessed implementa ports.ScanMetrics.
func (m *Metrics) ScanProcessed(topic, outcome string) {
	m.scansProcessed.WithLabelValues(topic, outcome).Inc()
}

// Handler sirve el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry devuelve el registry (pruebas).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware registra cada petición con la ruta declarada, no la ruta real.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
