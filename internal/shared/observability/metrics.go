package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lddtopo_graph_vertices",
		Help: "Number of vertices in the most recent dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lddtopo_graph_edges",
		Help: "Number of edges in the most recent dependency graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lddtopo_analysis_seconds",
		Help:    "Time spent in each analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lddtopo_runs_total",
		Help: "Total number of analyses by outcome.",
	}, []string{"outcome"})

	DanglingReferencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lddtopo_dangling_references_total",
		Help: "Total number of needed names dropped because they were never resolved.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lddtopo_watcher_events_total",
		Help: "Total number of tree file changes that triggered a re-run.",
	})
)

const (
	OutcomeSorted = "sorted"
	OutcomeCycle  = "cycle"
	OutcomeError  = "error"
)

// WriteTextfile dumps the default registry for the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
