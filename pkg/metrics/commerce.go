package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commerce_orders_created_total",
		Help: "Total number of orders placed",
	})

	OrderRevenue = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commerce_order_revenue_total",
		Help: "Sum of order totals at placement time",
	})

	OrderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commerce_order_status_transitions_total",
		Help: "Order status changes by source and target status",
	}, []string{"from", "to"})

	InquiriesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commerce_inquiries_created_total",
		Help: "Total number of product inquiries received",
	})

	LowStockProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "commerce_low_stock_products",
		Help: "Active products at or below the low-stock threshold",
	})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commerce_emails_sent_total",
		Help: "Notification e-mails by outcome",
	}, []string{"result"})
)

var once sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			OrdersCreated,
			OrderRevenue,
			OrderTransitions,
			InquiriesCreated,
			LowStockProducts,
			EmailsSent,
		)
	})
}
