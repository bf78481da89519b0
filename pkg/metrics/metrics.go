package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yumyai/rbhsum/pkg/model"
)

var (
	once sync.Once

	// SummaryRunsTotal counts summarization passes by mode and outcome.
	SummaryRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbhsum",
		Subsystem: "summarizer",
		Name:      "runs_total",
		Help:      "Total number of summarization runs, labeled by kind (search, reciprocal, aggregate) and result.",
	}, []string{"kind", "result"})

	// ClassifiedHitsTotal counts hits filed into summaries by status.
	ClassifiedHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbhsum",
		Subsystem: "summarizer",
		Name:      "classified_hits_total",
		Help:      "Total number of hits filed into summaries, labeled by status.",
	}, []string{"status"})

	// SkippedPairsTotal counts (query, database) pairs left out of a run.
	SkippedPairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rbhsum",
		Subsystem: "summarizer",
		Name:      "skipped_pairs_total",
		Help:      "Total number of (query, database) pairs skipped because their results were missing or unparsed.",
	})

	// SearchDurationSeconds is wall time of external search runs.
	SearchDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rbhsum",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Wall time of external search program runs.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 900},
	}, []string{"program", "result"})
)

// Register registers the summarizer metrics with the default Prometheus
// registry. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			SummaryRunsTotal,
			ClassifiedHitsTotal,
			SkippedPairsTotal,
			SearchDurationSeconds,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveReport records the outcome of one summarization pass.
func ObserveReport(kind string, report *model.RunReport, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SummaryRunsTotal.WithLabelValues(kind, result).Inc()
	if report == nil {
		return
	}
	for status, n := range report.Hits {
		ClassifiedHitsTotal.WithLabelValues(status.String()).Add(float64(n))
	}
	SkippedPairsTotal.Add(float64(len(report.Skipped)))
}
