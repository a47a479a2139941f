package mlogger

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeFailure = "failure"
)

type metrics struct {
	records  *prometheus.CounterVec
	filtered prometheus.Counter
	reports  *prometheus.CounterVec
	inits    *prometheus.CounterVec
	ready    prometheus.Gauge
}

// newMetrics registers the manager's collectors with reg. queueDepth is
// sampled on every scrape.
func newMetrics(reg prometheus.Registerer, queueDepth func() float64) *metrics {
	m := &metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: componentName,
			Name:      "records_total",
			Help:      "Records handed to the sink, by severity.",
		}, []string{"severity"}),
		filtered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: componentName,
			Name:      "records_filtered_total",
			Help:      "Records dropped because they were below the threshold.",
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: componentName,
			Name:      "error_reports_total",
			Help:      "Failures delivered to the error callback or the fallback stream.",
		}, []string{functionFieldName}),
		inits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: componentName,
			Name:      "initializations_total",
			Help:      "Initialize calls by outcome.",
		}, []string{"outcome"}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: componentName,
			Name:      "ready",
			Help:      "1 while a sink is installed.",
		}),
	}

	reg.MustRegister(
		m.records,
		m.filtered,
		m.reports,
		m.inits,
		m.ready,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: componentName,
			Name:      "queue_depth",
			Help:      "Records waiting in the async queue.",
		}, queueDepth),
	)
	return m
}

// initialized counts an Initialize call. ready is set by the manager under
// its lock.
func (m *metrics) initialized(outcome string) {
	m.inits.WithLabelValues(outcome).Inc()
}
