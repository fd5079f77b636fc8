package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics exposes the stock totals the dashboard also reports.
type InventoryMetrics struct {
	itemsTotal    prometheus.Gauge
	itemsBorrowed prometheus.Gauge
	actionsTotal  *prometheus.CounterVec
}

// NewInventoryMetrics registers the inventory gauges on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	itemsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_items_total",
		Help: "Number of items currently registered.",
	})
	itemsBorrowed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_items_borrowed",
		Help: "Number of items whose latest ledger action is a borrow.",
	})
	actionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_actions_total",
		Help: "Ledger actions recorded, by type.",
	}, []string{"action"})
	reg.MustRegister(itemsTotal, itemsBorrowed, actionsTotal)
	return &InventoryMetrics{
		itemsTotal:    itemsTotal,
		itemsBorrowed: itemsBorrowed,
		actionsTotal:  actionsTotal,
	}
}

// SetTotals refreshes the stock gauges from a dashboard snapshot.
func (m *InventoryMetrics) SetTotals(total, borrowed int64) {
	if m == nil || m.itemsTotal == nil {
		return
	}
	m.itemsTotal.Set(float64(total))
	m.itemsBorrowed.Set(float64(borrowed))
}

// IncAction counts one recorded ledger action.
func (m *InventoryMetrics) IncAction(action string) {
	if m == nil || m.actionsTotal == nil {
		return
	}
	m.actionsTotal.WithLabelValues(normalizeLabel(action)).Inc()
}
