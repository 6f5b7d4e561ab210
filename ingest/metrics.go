package ingest

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks ingest pipeline activity.
type Metrics struct {
	FilesIngested prometheus.Counter
	ParseFailures prometheus.Counter
	TermsParsed   prometheus.Counter
	RootsParsed   prometheus.Counter
}

// NewMetrics creates the pipeline metrics and registers them on reg. A nil
// registerer leaves the metrics unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontodag",
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Number of ontology files ingested successfully.",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontodag",
			Subsystem: "ingest",
			Name:      "parse_failures_total",
			Help:      "Number of files that failed to parse.",
		}),
		TermsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontodag",
			Subsystem: "ingest",
			Name:      "terms_total",
			Help:      "Number of distinct terms built across all files.",
		}),
		RootsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontodag",
			Subsystem: "ingest",
			Name:      "roots_total",
			Help:      "Number of root terms returned across all files.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.FilesIngested, m.ParseFailures, m.TermsParsed, m.RootsParsed)
	}
	return m
}
