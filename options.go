package vekk

import (
	"log/slog"

	"github.com/hupe1980/vekk/heapbuf"
)

type options[T any] struct {
	alloc            heapbuf.Allocator[T]
	arenaOptions     []heapbuf.ArenaOption
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures pool constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. allocator-specific constructor variants).
type Option[T any] func(*options[T])

// WithAllocator configures the heap-buffer allocator the pool delegates to
// once containers spill. The pool does not close an injected allocator;
// ownership stays with the caller.
//
// If nil is passed, the pool creates and owns a heapbuf.Arena.
func WithAllocator[T any](a heapbuf.Allocator[T]) Option[T] {
	return func(o *options[T]) {
		o.alloc = a
	}
}

// WithArenaOptions forwards options to the pool-owned heapbuf.Arena.
// Ignored when WithAllocator is also given.
//
// Example:
//
//	p := vekk.NewPool[uint32](
//	    vekk.WithArenaOptions[uint32](heapbuf.WithMaxBytes(1 << 20)),
//	)
func WithArenaOptions[T any](optFns ...heapbuf.ArenaOption) Option[T] {
	return func(o *options[T]) {
		o.arenaOptions = append(o.arenaOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vekk.BasicMetricsCollector{}
//	p := vekk.NewPool[uint32](vekk.WithMetricsCollector[uint32](metrics))
//	// ... use p ...
//	stats := metrics.GetStats()
func WithMetricsCollector[T any](mc MetricsCollector) Option[T] {
	return func(o *options[T]) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger[T any](logger *Logger) Option[T] {
	return func(o *options[T]) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel[T any](level slog.Level) Option[T] {
	return func(o *options[T]) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions[T any](optFns []Option[T]) options[T] {
	o := options[T]{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
