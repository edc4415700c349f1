package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncQuote()
	m.IncQuote()
	m.IncOrder("cash_on_delivery")
	m.IncRedemption("percentage")
	m.ObserveOrderTotal(45)

	if got := testutil.ToFloat64(m.quotes); got != 2 {
		t.Fatalf("expected 2 quotes, got %v", got)
	}
	if got := testutil.ToFloat64(m.orders.WithLabelValues("cash_on_delivery")); got != 1 {
		t.Fatalf("expected 1 order, got %v", got)
	}
	if got := testutil.ToFloat64(m.redemptions.WithLabelValues("percentage")); got != 1 {
		t.Fatalf("expected 1 redemption, got %v", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncQuote()
	m.IncOrder("card")
	m.IncRedemption("fixed_amount")
	m.ObserveOrderTotal(10)

	unregistered := NewCheckoutMetrics(nil)
	unregistered.IncQuote()
	unregistered.IncOrder("")
	unregistered.IncRedemption("")
}
