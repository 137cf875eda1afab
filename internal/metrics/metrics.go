package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels completed analysis runs.
	OutcomeSuccess = "success"
	// OutcomeError labels failed runs (decode or dependency issues).
	OutcomeError = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentinel_rca",
			Name:      "analyses_total",
			Help:      "Total number of analysis runs handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sentinel_rca",
			Name:      "analysis_seconds",
			Help:      "Analysis run latency in seconds.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	recordsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sentinel_rca",
			Name:      "records_skipped_total",
			Help:      "Input records skipped as malformed across all runs.",
		},
	)

	clustersPerAnalysis = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sentinel_rca",
			Name:      "clusters_per_analysis",
			Help:      "Number of anomaly clusters produced per analysis run.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
)

// Register attaches sentinel-rca collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		analysesTotal,
		analysisDurationSeconds,
		recordsSkippedTotal,
		clustersPerAnalysis,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAnalysis records an analysis duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	analysesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	analysisDurationSeconds.Observe(duration.Seconds())
}

// AddSkippedRecords accumulates malformed-record counts.
func AddSkippedRecords(n int) {
	if n > 0 {
		recordsSkippedTotal.Add(float64(n))
	}
}

// ObserveClusters records the cluster count of one run.
func ObserveClusters(n int) {
	clustersPerAnalysis.Observe(float64(n))
}
