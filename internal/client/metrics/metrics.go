// Package metrics exposes Prometheus collectors for the service clients.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "varta_client"

type Metrics struct {
	attempts     *prometheus.CounterVec
	retries      *prometheus.CounterVec
	unauthorized *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "HTTP attempts by service, method and status (\"network\" when no response).",
		}, []string{"service", "method", "status"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Scheduled retries by service.",
		}, []string{"service"}),
		unauthorized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unauthorized_total",
			Help:      "401 responses that purged the credential store.",
		}, []string{"service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Duration of logical calls including retries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.retries, m.unauthorized, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveAttempt(service, method string, status int) {
	if m == nil {
		return
	}
	label := "network"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.attempts.WithLabelValues(service, method, label).Inc()
}

func (m *Metrics) ObserveRetry(service string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(service).Inc()
}

func (m *Metrics) ObserveUnauthorized(service string) {
	if m == nil {
		return
	}
	m.unauthorized.WithLabelValues(service).Inc()
}

func (m *Metrics) ObserveCall(service, method string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(service, method).Observe(d.Seconds())
}
