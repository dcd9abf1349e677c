package config

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. It records remote call
// outcomes for the Wialon client and per-route HTTP counts.
type Metrics struct {
	gatherer prometheus.Gatherer

	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	logins       *prometheus.CounterVec
	retries      *prometheus.CounterVec
	requests     *prometheus.CounterVec
}

// NewMetrics registers the collectors against reg, or the default registry
// when reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wialon_calls_total",
			Help: "Remote Wialon calls, labeled by service and outcome.",
		}, []string{"service", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wialon_call_duration_seconds",
			Help:    "Remote Wialon call latency in seconds, retries included.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"service"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wialon_logins_total",
			Help: "Wialon login exchanges, labeled by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wialon_session_retries_total",
			Help: "Calls replayed after the platform rejected the session.",
		}, []string{"service"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Handled HTTP requests, labeled by route and status code.",
		}, []string{"route", "code"}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.callDuration, m.logins, m.retries, m.requests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveCall(service, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(service, outcome).Inc()
	m.callDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLogin(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRetry(service string) {
	m.retries.WithLabelValues(service).Inc()
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (m *Metrics) Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})))
}
