// Package metrics holds the Prometheus collectors of the ledger service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Uploads        *prometheus.CounterVec
	UploadRows     *prometheus.CounterVec
	Transactions   *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	Undos          prometheus.Counter
	Products       prometheus.Gauge
	LedgerSize     prometheus.Gauge
	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_uploads_total",
				Help: "Spreadsheet uploads processed, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		UploadRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_upload_rows_total",
				Help: "Upload rows by kind and result (added, updated, imported, missing)",
			},
			[]string{"kind", "result"},
		),
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_total",
				Help: "Transactions appended to the ledger, by type",
			},
			[]string{"type"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rejections_total",
				Help: "Operations rejected without a state change, by reason",
			},
			[]string{"reason"},
		),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_undo_total",
			Help: "Snapshots restored by undo",
		}),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_products",
			Help: "Products in the catalog",
		}),
		LedgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_transactions",
			Help: "Transactions in the ledger",
		}),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.Uploads, m.UploadRows, m.Transactions, m.Rejections, m.Undos,
			m.Products, m.LedgerSize, m.RequestCounter, m.RequestLatency,
		)
	}
	return m
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestLatency.WithLabelValues(method, route).Observe(seconds)
}

// SetSize updates the catalog and ledger gauges.
func (m *Metrics) SetSize(products, transactions int) {
	m.Products.Set(float64(products))
	m.LedgerSize.Set(float64(transactions))
}
