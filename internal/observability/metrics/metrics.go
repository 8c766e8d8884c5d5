package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReconcilerMetrics - счетчики и гистограммы движка сверки
type ReconcilerMetrics struct {
	runsTotal      *prometheus.CounterVec
	unitsTotal     *prometheus.CounterVec
	proposalsTotal prometheus.Counter
	unmatchedTotal prometheus.Counter
	ehrCallLatency *prometheus.HistogramVec
}

func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	m := &ReconcilerMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reconciler",
			Subsystem: "runs",
			Name:      "total",
			Help:      "Total reconciliation runs",
		}, []string{"status"}),
		unitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reconciler",
			Subsystem: "units",
			Name:      "total",
			Help:      "Total reconciliation units processed",
		}, []string{"status"}),
		proposalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reconciler",
			Subsystem: "proposals",
			Name:      "total",
			Help:      "Total proposed appointments produced",
		}),
		unmatchedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reconciler",
			Subsystem: "slots",
			Name:      "unmatched_duration_total",
			Help:      "Slots skipped because no appointment type matched their length",
		}),
		ehrCallLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reconciler",
			Subsystem: "ehr",
			Name:      "call_latency_seconds",
			Help:      "Latency of EHR schedule lookup calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.runsTotal, m.unitsTotal, m.proposalsTotal, m.unmatchedTotal, m.ehrCallLatency)
	return m
}

func (m *ReconcilerMetrics) ObserveRun(status string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
}

func (m *ReconcilerMetrics) ObserveUnit(status string) {
	if m == nil {
		return
	}
	m.unitsTotal.WithLabelValues(status).Inc()
}

func (m *ReconcilerMetrics) AddProposals(count int) {
	if m == nil {
		return
	}
	m.proposalsTotal.Add(float64(count))
}

func (m *ReconcilerMetrics) ObserveUnmatchedDuration() {
	if m == nil {
		return
	}
	m.unmatchedTotal.Inc()
}

func (m *ReconcilerMetrics) ObserveEhrCall(status string, seconds float64) {
	if m == nil {
		return
	}
	m.ehrCallLatency.WithLabelValues(status).Observe(seconds)
}
