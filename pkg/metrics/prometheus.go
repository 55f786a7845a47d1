package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scans        prometheus.Counter
	scanDuration prometheus.Histogram
	signals      *prometheus.CounterVec
	skips        *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	progress     *prometheus.GaugeVec
	errorsTotal  *prometheus.CounterVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder on reg (useful for testing).
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		scans: f.NewCounter(prometheus.CounterOpts{
			Name: "signallab_symbol_scans_total",
			Help: "Total number of symbols scanned",
		}),
		scanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "signallab_symbol_scan_seconds",
			Help:    "Duration of a single symbol scan in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signallab_signals_total",
				Help: "Signals kept after filtering, by strategy",
			},
			[]string{"strategy"},
		),
		skips: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signallab_skipped_symbols_total",
				Help: "Symbols skipped before detection, by reason",
			},
			[]string{"reason"},
		),
		dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signallab_dropped_signals_total",
				Help: "Signals dropped as non-executable, by status",
			},
			[]string{"status"},
		),
		progress: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signallab_job_progress_ratio",
				Help: "Completed fraction of a running batch job",
			},
			[]string{"job_id"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signallab_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

func (r *Recorder) RecordScan(signals int, seconds float64) {
	r.scans.Inc()
	r.scanDuration.Observe(seconds)
}

func (r *Recorder) RecordSignals(strategy string, n int) {
	r.signals.WithLabelValues(strategy).Add(float64(n))
}

func (r *Recorder) RecordSkip(reason string) {
	r.skips.WithLabelValues(reason).Inc()
}

func (r *Recorder) RecordDropped(status string) {
	r.dropped.WithLabelValues(status).Inc()
}

// RecordProgress sets the job gauge; finished jobs are removed so labels stay bounded.
func (r *Recorder) RecordProgress(jobID string, completed, total int) {
	if total <= 0 || completed >= total {
		r.progress.DeleteLabelValues(jobID)
		return
	}
	r.progress.WithLabelValues(jobID).Set(float64(completed) / float64(total))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
