package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/keyed/pkg/keyed"
)

// Default tracer name for reconciliation spans.
const defaultTracerName = "keyed"

// TracingConfig configures the tracing observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "keyed").
	TracerName string

	// Provider supplies the tracer. Default: the global provider.
	Provider trace.TracerProvider

	// Attributes are added to every span, e.g. the board or page name.
	Attributes []attribute.KeyValue
}

// TracingOption configures the tracing observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = provider
	}
}

// WithAttributes adds constant attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

type passKey struct {
	list uint64
	pass uint64
}

// Tracer is a keyed.Observer that opens a span per reconciliation pass.
type Tracer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	mu    sync.Mutex
	spans map[passKey]trace.Span
}

// Tracing creates a tracing observer. Spans are named "keyed.reconcile" and
// carry the pass counters as attributes.
func Tracing(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}

	return &Tracer{
		tracer: config.Provider.Tracer(config.TracerName),
		attrs:  config.Attributes,
		spans:  make(map[passKey]trace.Span),
	}
}

// PassStarted implements keyed.Observer.
func (t *Tracer) PassStarted(info keyed.PassInfo) {
	attrs := append([]attribute.KeyValue{
		attribute.Int64("keyed.list_id", int64(info.ListID)),
		attribute.Int64("keyed.pass", int64(info.Pass)),
		attribute.Int("keyed.old_len", info.OldLen),
		attribute.Int("keyed.new_len", info.NewLen),
	}, t.attrs...)

	_, span := t.tracer.Start(context.Background(), "keyed.reconcile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(info.Start),
		trace.WithAttributes(attrs...),
	)

	t.mu.Lock()
	t.spans[passKey{info.ListID, info.Pass}] = span
	t.mu.Unlock()
}

// PassFinished implements keyed.Observer.
func (t *Tracer) PassFinished(info keyed.PassInfo, stats keyed.PassStats) {
	key := passKey{info.ListID, info.Pass}

	t.mu.Lock()
	span, ok := t.spans[key]
	delete(t.spans, key)
	t.mu.Unlock()

	if !ok {
		return
	}

	span.SetAttributes(
		attribute.String("keyed.path", stats.Path.String()),
		attribute.Int("keyed.created", stats.Created),
		attribute.Int("keyed.removed", stats.Removed),
		attribute.Int("keyed.moved", stats.Moved),
		attribute.Int("keyed.retained", stats.Retained),
		attribute.Int("keyed.duplicates", stats.Duplicates),
	)
	span.End(trace.WithTimestamp(info.Start.Add(stats.Duration)))
}

// Open returns the number of spans started but not yet finished.
func (t *Tracer) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}
