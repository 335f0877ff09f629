// Package metrics records scan metrics in a private Prometheus registry and
// writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

const namespace = "s3sentinel"

// Recorder holds the scan metrics. The zero value is not usable; call New.
type Recorder struct {
	registry *prometheus.Registry

	findings      *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	resources     *prometheus.GaugeVec
	partial       prometheus.Gauge
}

// New returns a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		findings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_total",
			Help:      "Findings produced, by check and status.",
		}, []string{"check", "status"}),
		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent evaluating a single check against a single bucket.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"check"}),
		resources: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resources",
			Help:      "Buckets in the last scan, by state (listed, attempted, succeeded, skipped).",
		}, []string{"state"}),
		partial: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_partial",
			Help:      "1 when the last scan hit its deadline before finishing.",
		}),
	}
}

// ObserveCheck records one finding and the time its check took.
func (r *Recorder) ObserveCheck(checkID string, status models.CheckStatus, d time.Duration) {
	r.findings.WithLabelValues(checkID, string(status)).Inc()
	r.checkDuration.WithLabelValues(checkID).Observe(d.Seconds())
}

// ObserveScan records the resource counters of a finished scan.
func (r *Recorder) ObserveScan(summary models.ScanSummary, partial bool) {
	r.resources.WithLabelValues("listed").Set(float64(summary.ResourcesListed))
	r.resources.WithLabelValues("attempted").Set(float64(summary.ResourcesAttempted))
	r.resources.WithLabelValues("succeeded").Set(float64(summary.ResourcesSucceeded))
	r.resources.WithLabelValues("skipped").Set(float64(summary.ResourcesSkipped))
	if partial {
		r.partial.Set(1)
	} else {
		r.partial.Set(0)
	}
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}
