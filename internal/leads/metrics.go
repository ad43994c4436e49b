package leads

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	submissions *prometheus.CounterVec
	rateLimited prometheus.Counter
	latency     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fullstock",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome and failure reason.",
		}, []string{"outcome", "reason"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fullstock",
			Subsystem: "leads",
			Name:      "rate_limited_total",
			Help:      "Lead submissions rejected by the rate limiter.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fullstock",
			Subsystem: "leads",
			Name:      "submission_duration_seconds",
			Help:      "Time spent forwarding a lead to Airtable.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.rateLimited, m.latency)
	}
	return m
}
