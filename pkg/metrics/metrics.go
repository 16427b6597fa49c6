package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the analysis bot.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec // labels: intent
	PipelineRuns      *prometheus.CounterVec // labels: status=ok|error
	PipelineDuration  prometheus.Histogram
	SeriesPoints      prometheus.Gauge
	DroppedRows       prometheus.Counter
	Correlation       prometheus.Gauge
	LastLoadTimestamp prometheus.Gauge
	ReloadsSkipped    prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
// A nil registerer leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockspan_queries_total",
			Help: "Questions answered, by classified intent",
		}, []string{"intent"}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockspan_pipeline_runs_total",
			Help: "Pipeline executions by outcome",
		}, []string{"status"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockspan_pipeline_duration_seconds",
			Help:    "Time to compute spans, averages, sentiment and correlation",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SeriesPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockspan_series_points",
			Help: "Price points in the current snapshot",
		}),
		DroppedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockspan_ingest_dropped_rows_total",
			Help: "CSV rows dropped during ingestion",
		}),
		Correlation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockspan_sentiment_span_correlation",
			Help: "Pearson correlation of sentiment and span in the current snapshot",
		}),
		LastLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockspan_last_load_timestamp_seconds",
			Help: "Unix time of the last successful load",
		}),
		ReloadsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockspan_reloads_skipped_total",
			Help: "Reload checks that found the source unchanged",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.QueriesTotal,
			m.PipelineRuns,
			m.PipelineDuration,
			m.SeriesPoints,
			m.DroppedRows,
			m.Correlation,
			m.LastLoadTimestamp,
			m.ReloadsSkipped,
		)
	}

	return m
}
