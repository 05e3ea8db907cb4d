package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout outcomes and backend call latency.
type CheckoutMetrics struct {
	backendDuration *prometheus.HistogramVec
	completed       prometheus.Counter
	paymentFailed   prometheus.Counter
	feeQuoteFailed  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_call_duration_seconds",
		Help:    "Duration of calls to the cafe API in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completed",
		Help: "Checkouts that reached order submission.",
	})
	paymentFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_payment_failed",
		Help: "Checkouts where payment was declined or failed.",
	})
	feeQuoteFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_fee_quote_failed",
		Help: "Delivery fee quotes that failed.",
	})
	reg.MustRegister(backendDuration, completed, paymentFailed, feeQuoteFailed)
	return &CheckoutMetrics{
		backendDuration: backendDuration,
		completed:       completed,
		paymentFailed:   paymentFailed,
		feeQuoteFailed:  feeQuoteFailed,
	}
}

// ObserveBackendCall records the duration of the named backend operation.
func (c *CheckoutMetrics) ObserveBackendCall(operation string, duration time.Duration) {
	if c == nil || c.backendDuration == nil {
		return
	}
	c.backendDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCompleted increments the completed checkout counter.
func (c *CheckoutMetrics) IncCompleted() {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.Inc()
}

// IncPaymentFailed increments the failed payment counter.
func (c *CheckoutMetrics) IncPaymentFailed() {
	if c == nil || c.paymentFailed == nil {
		return
	}
	c.paymentFailed.Inc()
}

// IncFeeQuoteFailed increments the failed fee quote counter.
func (c *CheckoutMetrics) IncFeeQuoteFailed() {
	if c == nil || c.feeQuoteFailed == nil {
		return
	}
	c.feeQuoteFailed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
