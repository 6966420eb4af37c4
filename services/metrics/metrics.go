package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studyplatform"

// Metrics holds the application collectors, registered on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	transitions      *prometheus.CounterVec
	paymentIntents   *prometheus.CounterVec
	notificationSent prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "session_transitions_total", Help: "Session status transitions",
		}, []string{"to", "result"}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "payment_intents_total", Help: "Payment intents requested",
		}, []string{"result"}),
		notificationSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_total", Help: "Tutor notifications queued",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration, m.transitions, m.paymentIntents, m.notificationSent,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveTransition(to string, err error) {
	m.transitions.WithLabelValues(to, result(err)).Inc()
}

func (m *Metrics) ObservePaymentIntent(err error) {
	m.paymentIntents.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveNotification() { m.notificationSent.Inc() }

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
