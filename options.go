package quickflip

import (
	"log/slog"

	"quickflip/internal/metrics"
)

// Metrics records operation counters. Create one with NewMetrics.
type Metrics = metrics.Recorder

// NewMetrics returns a Metrics with its own Prometheus registry.
func NewMetrics() *Metrics {
	return metrics.New()
}

type options struct {
	logger      *slog.Logger
	parallelism int
	undoLabel   string
	metrics     *metrics.Recorder
}

// Option configures one operation call.
type Option func(*options)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithParallelism bounds concurrent snapshot reads while planning.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithUndoLabel names the undo step. The axis is appended.
func WithUndoLabel(label string) Option {
	return func(o *options) {
		o.undoLabel = label
	}
}

// WithMetrics records the operation in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func collectOptions(opts []Option) options {
	o := options{parallelism: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
