package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	guardDecisions  *prometheus.CounterVec
	paymentsCreated *prometheus.CounterVec
}

// New registers the application instruments on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on the given registerer. Tests pass a fresh registry so
// repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cablepro_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cablepro_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		guardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cablepro_billing_guard_decisions_total",
			Help: "Billing-cycle guard outcomes by decision and reason.",
		}, []string{"decision", "reason"}),
		paymentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cablepro_payments_created_total",
			Help: "Recorded payments by method.",
		}, []string{"method"}),
	}
}

// ObserveGuardDecision counts a billing-cycle guard outcome. The free-text
// rejection reason is collapsed to a small label set to keep cardinality
// bounded.
func (m *Metrics) ObserveGuardDecision(allowed bool, reason string) {
	if m == nil {
		return
	}
	decision := "allowed"
	if !allowed {
		decision = "rejected"
	}
	m.guardDecisions.WithLabelValues(decision, guardReasonLabel(allowed, reason)).Inc()
}

func guardReasonLabel(allowed bool, reason string) string {
	switch {
	case allowed:
		return "none"
	case reason == "customer not active":
		return "not_active"
	case reason == "invalid amount":
		return "invalid_amount"
	default:
		return "cycle_active"
	}
}

// ObservePaymentCreated counts a recorded payment.
func (m *Metrics) ObservePaymentCreated(method string) {
	if m == nil {
		return
	}
	m.paymentsCreated.WithLabelValues(strings.ToLower(method)).Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
