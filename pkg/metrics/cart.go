package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cart operation results.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// CartMetrics counts cart operations by outcome.
type CartMetrics struct {
	operations *prometheus.CounterVec
	merged     prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by operation and result.",
	}, []string{"operation", "result"})
	merged := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_sync_items",
		Help:    "Number of line items in a cart after a sync merge.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	reg.MustRegister(operations, merged)
	return &CartMetrics{operations: operations, merged: merged}
}

// IncOperation increments the counter for the operation/result pair.
func (c *CartMetrics) IncOperation(operation, result string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// ObserveSyncSize records the merged cart size.
func (c *CartMetrics) ObserveSyncSize(items int) {
	if c == nil || c.merged == nil {
		return
	}
	c.merged.Observe(float64(items))
}
