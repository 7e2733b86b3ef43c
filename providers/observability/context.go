package observability

import "context"

type contextKey int

const (
	providerContextKey contextKey = iota
	spanContextKey
)

// WithProvider returns a context carrying the given observability provider.
func WithProvider(ctx context.Context, provider Provider) context.Context {
	return context.WithValue(ctx, providerContextKey, provider)
}

// FromContext returns the provider stored in the context, or a noop provider
// when none is present. The return value is never nil.
func FromContext(ctx context.Context) Provider {
	if provider, ok := ctx.Value(providerContextKey).(Provider); ok && provider != nil {
		return provider
	}
	return Noop()
}

// WithSpan returns a context carrying the given span. Tracer implementations
// call this from StartSpan so nested calls can attach events to the active span.
func WithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, spanContextKey, span)
}

// SpanFromContext returns the active span, or nil when no span is recorded.
func SpanFromContext(ctx context.Context) Span {
	if span, ok := ctx.Value(spanContextKey).(Span); ok {
		return span
	}
	return nil
}
