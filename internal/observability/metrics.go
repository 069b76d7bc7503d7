package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveFollowups   prometheus.Gauge
	ConsultEvents     *prometheus.CounterVec
	QuestionsAsked    prometheus.Counter
	GeneratorFailures *prometheus.CounterVec
	GenerateLatency   prometheus.Histogram
}

// NewMetrics registers the instruments on reg. A nil reg falls back to the
// default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ActiveFollowups: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_followup_connections",
			Help:      "Number of open follow-up WebSocket connections.",
		}),
		ConsultEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consult_events_total",
			Help:      "Consultation lifecycle events by type.",
		}, []string{"event"}),
		QuestionsAsked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_asked_total",
			Help:      "Follow-up questions relayed to clients.",
		}),
		GeneratorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_failures_total",
			Help:      "Generation failures by kind (unavailable, transport, format).",
		}, []string{"kind"}),
		GenerateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_latency_seconds",
			Help:      "Latency of a single generation call.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
}

func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	m.GenerateLatency.Observe(d.Seconds())
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
