package notify

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts delivery outcomes per event type.
type Metrics struct {
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	dropped   prometheus.Counter
}

// NewMetrics registers the notification counters on reg.
func NewMetrics(reg prometheus.Registerer, driver string) (*Metrics, error) {
	labels := prometheus.Labels{"driver": driver}
	m := &Metrics{
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "dispatch",
			Name:        "order_events_delivered_total",
			Help:        "Order change events delivered to watchers.",
			ConstLabels: labels,
		}, []string{"type"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "dispatch",
			Name:        "order_events_failed_total",
			Help:        "Order change events the driver failed to deliver.",
			ConstLabels: labels,
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "dispatch",
			Name:        "order_events_dropped_total",
			Help:        "Order change events dropped because the delivery buffer was full.",
			ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{m.delivered, m.failed, m.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
