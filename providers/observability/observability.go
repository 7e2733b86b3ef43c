package observability

import (
	"context"
	"time"
)

// Provider is the main interface for observability (tracing and structured
// logging). Implementations must be safe for concurrent use: workflow nodes
// running in the same superstep share one Provider.
type Provider interface {
	Tracer
	Logger
}

// --- TRACING ---

// Tracer provides span-based tracing for workflow runs, node executions and
// outbound capability calls.
type Tracer interface {
	// StartSpan starts a new span and returns a context carrying it.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span represents a single unit of work.
type Span interface {
	// End completes the span.
	End()
	// SetAttributes adds attributes to the span.
	SetAttributes(attrs ...Attribute)
	// RecordError records an error on the span.
	RecordError(err error)
	// AddEvent adds a point-in-time event to the span.
	AddEvent(name string, attrs ...Attribute)
}

// --- LOGGING ---

// Logger provides leveled structured logging.
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// --- ATTRIBUTES ---

// Attribute is a key-value pair attached to spans and log records.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute { return Attribute{Key: key, Value: value} }

// Int creates an integer attribute.
func Int(key string, value int) Attribute { return Attribute{Key: key, Value: value} }

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute { return Attribute{Key: key, Value: value} }

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute { return Attribute{Key: key, Value: value} }

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute. A nil error yields an empty value.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: "error", Value: ""}
	}
	return Attribute{Key: "error", Value: err.Error()}
}

// --- NOOP ---

// Noop returns a Provider that discards everything. Useful as a default when
// no observability backend is configured.
func Noop() Provider { return noopProvider{} }

type noopProvider struct{}

type noopSpan struct{}

func (noopProvider) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopProvider) Debug(context.Context, string, ...Attribute) {}
func (noopProvider) Info(context.Context, string, ...Attribute)  {}
func (noopProvider) Warn(context.Context, string, ...Attribute)  {}
func (noopProvider) Error(context.Context, string, ...Attribute) {}

func (noopSpan) End()                          {}
func (noopSpan) SetAttributes(...Attribute)    {}
func (noopSpan) RecordError(error)             {}
func (noopSpan) AddEvent(string, ...Attribute) {}
