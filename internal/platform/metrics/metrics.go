package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los collectors del servicio. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	alerts          *prometheus.GaugeVec
	webhookMessages *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catcare_http_requests_total",
		Help: "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catcare_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	alerts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catcare_dashboard_alerts",
		Help: "Priority alerts in the last dashboard build, by severity.",
	}, []string{"severity"})
	webhookMessages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catcare_whatsapp_messages_total",
		Help: "Inbound WhatsApp messages by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(requests, requestDuration, alerts, webhookMessages)

	return &Metrics{
		requests:        requests,
		requestDuration: requestDuration,
		alerts:          alerts,
		webhookMessages: webhookMessages,
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// SetAlerts reemplaza los valores del gauge con el conteo por severidad.
func (m *Metrics) SetAlerts(bySeverity map[string]int) {
	if m == nil || m.alerts == nil {
		return
	}
	m.alerts.Reset()
	for sev, n := range bySeverity {
		m.alerts.WithLabelValues(sev).Set(float64(n))
	}
}

func (m *Metrics) IncWebhookMessage(outcome string) {
	if m == nil || m.webhookMessages == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.webhookMessages.WithLabelValues(outcome).Inc()
}
