// Package metrics collects scan metrics and exports them in the Prometheus
// text format, for the node_exporter textfile collector.
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smykla-skalski/filescan/internal/engine"
	"github.com/smykla-skalski/filescan/internal/walker"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

const namespace = "filescan"

// Collector holds the metrics of a single scan in its own registry.
type Collector struct {
	registry *prometheus.Registry

	verdicts   *prometheus.CounterVec
	files      prometheus.Counter
	matched    prometheus.Counter
	bytes      prometheus.Counter
	excluded   prometheus.Counter
	walkErrors prometheus.Counter
	plugins    prometheus.Gauge
	duration   prometheus.Gauge
	lastRun    prometheus.Gauge
}

// NewCollector creates a collector with every metric registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plugin_verdicts_total",
				Help:      "Verdicts returned by plugins, by outcome",
			},
			[]string{"plugin", "outcome"},
		),
		files: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Files evaluated by the scan",
		}),
		matched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_matched_total",
			Help:      "Files reported as matching",
		}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanned_bytes_total",
			Help:      "Total size of the evaluated files",
		}),
		excluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_excluded_total",
			Help:      "Entries filtered out by include and exclude globs",
		}),
		walkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walk_errors_total",
			Help:      "Entries that could not be read during traversal",
		}),
		plugins: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugins_used",
			Help:      "Plugins used by the scan",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of the scan",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the scan finished",
		}),
	}
}

// ObserveVerdict counts one plugin verdict. It satisfies engine.Observer.
func (c *Collector) ObserveVerdict(plugin string, v pluginapi.Verdict) {
	c.verdicts.WithLabelValues(plugin, v.Outcome.String()).Inc()
}

// ObserveScan records the totals of a finished scan.
func (c *Collector) ObserveScan(result engine.Summary, walk walker.Stats, plugins int) {
	c.files.Add(float64(result.Files))
	c.matched.Add(float64(result.Matched))
	c.bytes.Add(float64(max(walk.Bytes, 0)))
	c.excluded.Add(float64(walk.Excluded))
	c.walkErrors.Add(float64(walk.Errors))
	c.plugins.Set(float64(plugins))
	c.duration.Set(result.Elapsed.Seconds())
	c.lastRun.SetToCurrentTime()
}

// WriteTextfile atomically writes every metric to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}

	return nil
}
