// Package metrics exposes per-collaborator counters (errors, opens,
// closes, records, truncations) as Prometheus vectors, labeled by the
// collaborator's identity so one noisy source stands out from the fleet.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// LogErrors counts source/target failures, labeled by collaborator
	// identity (a pathname, socket address, or similar).
	LogErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loghaul",
		Name:      "log_errors_total",
		Help:      "Number of errors observed by a collaborator Source or Target.",
	}, []string{"source"})

	// LogOpens counts successful opens of an underlying resource (file
	// handle, socket connection).
	LogOpens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loghaul",
		Name:      "log_opens_total",
		Help:      "Number of times a collaborator opened its underlying resource.",
	}, []string{"source"})

	// LogCloses counts closes of an underlying resource.
	LogCloses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loghaul",
		Name:      "log_closes_total",
		Help:      "Number of times a collaborator closed its underlying resource.",
	}, []string{"source"})

	// LogLines counts records produced by a Source or consumed by a Target.
	LogLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loghaul",
		Name:      "log_lines_total",
		Help:      "Number of records produced or consumed by a collaborator.",
	}, []string{"source"})

	// FileTruncates counts detected truncations of a tailed file.
	FileTruncates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "loghaul",
		Name:      "file_truncates_total",
		Help:      "Number of truncations detected while tailing a file.",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(LogErrors, LogOpens, LogCloses, LogLines, FileTruncates)
}
