package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics tracks the customer purchase funnel.
type CheckoutMetrics struct {
	quotes      prometheus.Counter
	orders      *prometheus.CounterVec
	redemptions *prometheus.CounterVec
	orderTotal  prometheus.Histogram
}

// NewCheckoutMetrics registers the funnel metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	quotes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_quotes_total",
		Help: "Checkout quotes computed.",
	})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by payment method.",
	}, []string{"payment_method"})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_redemptions_total",
		Help: "Coupon redemptions recorded, by coupon type.",
	}, []string{"type"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_amount",
		Help:    "Final order totals in currency units.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	reg.MustRegister(quotes, orders, redemptions, orderTotal)
	return &CheckoutMetrics{
		quotes:      quotes,
		orders:      orders,
		redemptions: redemptions,
		orderTotal:  orderTotal,
	}
}

// IncQuote counts one checkout quote.
func (m *CheckoutMetrics) IncQuote() {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.Inc()
}

// IncOrder counts one created order.
func (m *CheckoutMetrics) IncOrder(paymentMethod string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncRedemption counts one coupon redemption.
func (m *CheckoutMetrics) IncRedemption(couponType string) {
	if m == nil || m.redemptions == nil {
		return
	}
	m.redemptions.WithLabelValues(normalizeLabel(couponType)).Inc()
}

// ObserveOrderTotal records the final amount of a created order.
func (m *CheckoutMetrics) ObserveOrderTotal(total float64) {
	if m == nil || m.orderTotal == nil {
		return
	}
	m.orderTotal.Observe(total)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
