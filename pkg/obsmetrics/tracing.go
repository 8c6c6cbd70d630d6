package obsmetrics

import (
	"context"
	"sync"
	"time"
)

// Tracer provides distributed tracing capabilities. This interface
// allows plugging in different tracing backends (OpenTelemetry or the
// no-op/simple implementations below).
type Tracer interface {
	// StartSpan starts a new span with the given name. Returns a
	// context containing the span and a function to end the span.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder)
}

// SpanEnder ends a span. Call with nil error for success, or pass an
// error to mark the span as failed.
type SpanEnder func(err error)

// SpanOption configures span behavior.
type SpanOption func(*spanConfig)

type spanConfig struct {
	kind       SpanKind
	attributes map[string]interface{}
}

// SpanKind identifies the type of span.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
)

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return func(c *spanConfig) { c.kind = kind }
}

// WithAttributes sets span attributes.
func WithAttributes(attrs map[string]interface{}) SpanOption {
	return func(c *spanConfig) { c.attributes = attrs }
}

// NoOpTracer is a tracer that does nothing. The default when tracing
// is not configured.
type NoOpTracer struct{}

func (NoOpTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	return ctx, func(err error) {}
}

// SimpleTracer records spans in memory. Useful for tests that assert
// on span names and durations without a real OpenTelemetry collector.
type SimpleTracer struct {
	mu    sync.Mutex
	spans []RecordedSpan
}

// RecordedSpan represents a completed span.
type RecordedSpan struct {
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Kind       SpanKind
	Attributes map[string]interface{}
	Error      error
}

// NewSimpleTracer creates a new SimpleTracer.
func NewSimpleTracer() *SimpleTracer {
	return &SimpleTracer{spans: make([]RecordedSpan, 0)}
}

// StartSpan starts a span tracked in memory.
func (t *SimpleTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, SpanEnder) {
	cfg := &spanConfig{kind: SpanKindInternal, attributes: make(map[string]interface{})}
	for _, opt := range opts {
		opt(cfg)
	}
	start := time.Now()
	return ctx, func(err error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		end := time.Now()
		t.spans = append(t.spans, RecordedSpan{
			Name:       name,
			StartTime:  start,
			EndTime:    end,
			Duration:   end.Sub(start),
			Kind:       cfg.kind,
			Attributes: cfg.attributes,
			Error:      err,
		})
	}
}

// Spans returns a copy of all recorded spans.
func (t *SimpleTracer) Spans() []RecordedSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RecordedSpan, len(t.spans))
	copy(out, t.spans)
	return out
}

// --- Global tracer ---

var (
	globalTracer   Tracer = NoOpTracer{}
	globalTracerMu sync.RWMutex
)

// GlobalTracer returns the package-level tracer. Defaults to a no-op
// tracer, so callers that never configure tracing (the common case for
// a one-shot CLI invocation) pay only the cost of a function call.
func GlobalTracer() Tracer {
	globalTracerMu.RLock()
	defer globalTracerMu.RUnlock()
	return globalTracer
}

// SetGlobalTracer replaces the package-level tracer — used by
// cmd/naclypt to install an *OTelTracer at startup (a real OpenTelemetry
// tracer when built with the "otel" tag, a no-op stub otherwise).
func SetGlobalTracer(t Tracer) {
	globalTracerMu.Lock()
	defer globalTracerMu.Unlock()
	globalTracer = t
}
