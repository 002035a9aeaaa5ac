package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake and
// qualification flows. The swallowed-fault counter is the visible error sink
// for failures that are deliberately never surfaced to callers.
type LeadMetrics struct {
	intakeTotal     *prometheus.CounterVec
	qualifyTotal    *prometheus.CounterVec
	qualifyLatency  *prometheus.HistogramVec
	swallowedFaults *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realty",
			Subsystem: "leads",
			Name:      "intake_total",
			Help:      "Total lead intake submissions",
		}, []string{"source", "result"}),
		qualifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realty",
			Subsystem: "leads",
			Name:      "qualify_total",
			Help:      "Total qualification runs",
		}, []string{"intent", "status"}),
		qualifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "realty",
			Subsystem: "leads",
			Name:      "qualify_latency_seconds",
			Help:      "Latency of lead qualification runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		swallowedFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "realty",
			Subsystem: "leads",
			Name:      "swallowed_faults_total",
			Help:      "Faults caught and discarded by availability-first policies",
		}, []string{"component"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakeTotal, m.qualifyTotal, m.qualifyLatency, m.swallowedFaults)
	return m
}

func (m *LeadMetrics) ObserveIntake(source, result string) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(source, result).Inc()
}

func (m *LeadMetrics) ObserveQualification(intent, status string) {
	if m == nil {
		return
	}
	m.qualifyTotal.WithLabelValues(intent, status).Inc()
}

func (m *LeadMetrics) ObserveQualifyLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.qualifyLatency.WithLabelValues(provider).Observe(seconds)
}

func (m *LeadMetrics) ObserveSwallowedFault(component string) {
	if m == nil {
		return
	}
	m.swallowedFaults.WithLabelValues(component).Inc()
}
