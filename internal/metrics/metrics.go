// Package metrics counts mirror operations on a private Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels how an operation ended.
type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomePreview     Outcome = "preview"
	OutcomeEmpty       Outcome = "empty"
	OutcomeStale       Outcome = "stale"
	OutcomeInvalidAxis Outcome = "invalid_axis"
	OutcomeFailed      Outcome = "failed"
)

// Recorder holds the counters. A nil *Recorder records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	mirrored   prometheus.Counter
	skipped    prometheus.Counter
	written    prometheus.Counter
	warnings   *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickflip",
			Name:      "operations_total",
			Help:      "Mirror operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		mirrored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickflip",
			Name:      "entities_mirrored_total",
			Help:      "Entities mirrored onto a counterpart or onto themselves.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickflip",
			Name:      "entities_no_counterpart_total",
			Help:      "Entities whose counterpart was missing.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickflip",
			Name:      "targets_written_total",
			Help:      "Distinct entities written by applied operations.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickflip",
			Name:      "warnings_total",
			Help:      "Diagnostics raised by code.",
		}, []string{"code"}),
	}

	r.registry.MustRegister(r.operations, r.mirrored, r.skipped, r.written, r.warnings)

	return r
}

// Operation counts one finished operation.
func (r *Recorder) Operation(op string, outcome Outcome) {
	if r == nil {
		return
	}

	r.operations.WithLabelValues(op, string(outcome)).Inc()
}

// Entities adds to the entity counters.
func (r *Recorder) Entities(mirrored, skipped int) {
	if r == nil {
		return
	}

	r.mirrored.Add(float64(mirrored))
	r.skipped.Add(float64(skipped))
}

// Written adds the number of distinct entities an applied plan wrote.
func (r *Recorder) Written(targets int) {
	if r == nil {
		return
	}

	r.written.Add(float64(targets))
}

// Warning counts one diagnostic code.
func (r *Recorder) Warning(code string) {
	if r == nil {
		return
	}

	r.warnings.WithLabelValues(code).Inc()
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format,
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
