package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	OrderTransitions *prometheus.CounterVec
	OrdersCreated    prometheus.Counter
	LedgerFailures   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrderTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Total number of order status transitions.",
			},
			[]string{"status", "outcome"},
		),
		OrdersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created.",
			},
		),
		LedgerFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_failures_total",
				Help: "Count of inventory or balance ledger updates that failed.",
			},
		),
	}

	reg.MustRegister(m.OrderTransitions, m.OrdersCreated, m.LedgerFailures)

	return m
}

func (m *Metrics) Transition(status, outcome string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) LedgerFailure() {
	if m == nil {
		return
	}
	m.LedgerFailures.Inc()
}
