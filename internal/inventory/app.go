package inventory

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Created  prometheus.Counter
	Rejected prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_products_created_total",
			Help: "Products persisted by the create endpoint",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_products_rejected_total",
			Help: "Create requests rejected for bad json or failed validation",
		}),
	}

	reg.MustRegister(m.Created, m.Rejected)
	return m
}
