package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuditMetrics are the gauges and counters the queue audit keeps current.
type AuditMetrics struct {
	length   prometheus.Gauge
	repaired prometheus.Counter
	failures prometheus.Counter
}

func NewAuditMetrics(reg prometheus.Registerer) (*AuditMetrics, error) {
	m := &AuditMetrics{
		length: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_load_queue_length",
			Help: "Number of ranked orders seen by the last queue audit.",
		}),
		repaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_load_queue_repaired_total",
			Help: "Orders renumbered by queue audits.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_queue_audit_failures_total",
			Help: "Queue audits that could not complete.",
		}),
	}
	for _, c := range []prometheus.Collector{m.length, m.repaired, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
