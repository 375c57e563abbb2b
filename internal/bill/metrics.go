package bill

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes recorded by Metrics
const (
	OutcomeOK             = "ok"
	OutcomeBadRequest     = "bad_request"
	OutcomeMissingFile    = "missing_file"
	OutcomeReadError      = "read_error"
	OutcomeUnsupported    = "unsupported_file"
	OutcomeExtractorError = "extractor_error"
)

// Metrics holds the Prometheus collectors for the parse endpoint
type Metrics struct {
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	items    prometheus.Histogram
}

// NewMetrics registers the parse collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return NewMetricsWithRegistry(reg, reg)
}

// NewMetricsWithRegistry registers the parse collectors on reg and serves gatherer
func NewMetricsWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bills_parser",
			Name:      "parse_requests_total",
			Help:      "Parse requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bills_parser",
			Name:      "parse_duration_seconds",
			Help:      "Time spent handling parse requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bills_parser",
			Name:      "parse_items",
			Help:      "Line items per parsed bill.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.items)
	return m
}

func (m *Metrics) observe(outcome string, seconds float64) {
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)
}

func (m *Metrics) observeItems(n int) {
	m.items.Observe(float64(n))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
