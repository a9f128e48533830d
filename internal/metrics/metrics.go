// Package metrics exposes sweep outcomes as Prometheus metrics.
//
// Metrics live on a private registry. The daemon serves them over HTTP;
// one-shot runs can write them to a node_exporter textfile instead.
//
// Metrics:
//   - seasonsweep_runs_total: passes by trigger, mode and result
//   - seasonsweep_run_duration_seconds: pass duration histogram
//   - seasonsweep_seasons_planned_total: seasons selected for deletion
//   - seasonsweep_seasons_skipped_total: seasons kept, by reason
//   - seasonsweep_files_deleted_total: episode files deleted
//   - seasonsweep_bytes_reclaimed_total: bytes freed by deletions
//   - seasonsweep_failures_total: failed mutations
//   - seasonsweep_last_run_timestamp_seconds: end time of the last pass
//   - seasonsweep_last_run_success: 1 when the last pass recorded no failures
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seasonsweep"

// Run is the outcome of one sweep pass.
type Run struct {
	Trigger        string
	DryRun         bool
	Started        time.Time
	Finished       time.Time
	SeasonsPlanned int
	Skipped        map[string]int
	FilesDeleted   int
	BytesReclaimed uint64
	Failures       int
	// Err is set when the pass aborted before or during execution.
	Err error
}

func (r Run) result() string {
	switch {
	case r.Err != nil && r.Failures == 0:
		return "error"
	case r.Failures > 0:
		return "partial"
	default:
		return "success"
	}
}

func (r Run) mode() string {
	if r.DryRun {
		return "dry_run"
	}
	return "delete"
}

// Collector records sweep metrics.
type Collector struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	seasonsPlanned prometheus.Counter
	seasonsSkipped *prometheus.CounterVec
	filesDeleted   prometheus.Counter
	bytesReclaimed prometheus.Counter
	failuresTotal  prometheus.Counter
	lastRun        prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// NewCollector creates a collector on a private registry. Go runtime and
// process collectors are included when withRuntime is true.
func NewCollector(withRuntime bool) *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Sweep passes by trigger, mode and result.",
		}, []string{"trigger", "mode", "result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of sweep passes in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		seasonsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seasons_planned_total",
			Help:      "Seasons selected for deletion.",
		}),
		seasonsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seasons_skipped_total",
			Help:      "Seasons kept, by reason.",
		}, []string{"reason"}),
		filesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_deleted_total",
			Help:      "Episode files deleted.",
		}),
		bytesReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_reclaimed_total",
			Help:      "Bytes freed by deleted episode files.",
		}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed unmonitor, list or delete steps.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last pass finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last pass finished without failures.",
		}),
	}
	registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.seasonsPlanned,
		c.seasonsSkipped,
		c.filesDeleted,
		c.bytesReclaimed,
		c.failuresTotal,
		c.lastRun,
		c.lastSuccess,
	)
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return c
}

// Observe records one finished pass.
func (c *Collector) Observe(run Run) {
	c.runsTotal.WithLabelValues(run.Trigger, run.mode(), run.result()).Inc()
	if !run.Started.IsZero() && run.Finished.After(run.Started) {
		c.runDuration.Observe(run.Finished.Sub(run.Started).Seconds())
	}
	c.seasonsPlanned.Add(float64(run.SeasonsPlanned))
	for reason, count := range run.Skipped {
		c.seasonsSkipped.WithLabelValues(reason).Add(float64(count))
	}
	c.filesDeleted.Add(float64(run.FilesDeleted))
	c.bytesReclaimed.Add(float64(run.BytesReclaimed))
	c.failuresTotal.Add(float64(run.Failures))
	if !run.Finished.IsZero() {
		c.lastRun.Set(float64(run.Finished.Unix()))
	}
	if run.result() == "success" {
		c.lastSuccess.Set(1)
	} else {
		c.lastSuccess.Set(0)
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// WriteTextfile writes the registry for the node_exporter textfile collector.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
