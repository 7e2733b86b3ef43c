// Package slogobs implements observability.Provider on top of the standard
// library's log/slog. Spans are rendered as paired start/end log records with
// a duration attribute; span events become debug records.
package slogobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/newsroom-tools/keywordagent/providers/observability"
)

// Provider implements observability.Provider using a slog.Logger.
type Provider struct {
	logger *slog.Logger
}

// Compile-time check that Provider implements observability.Provider.
var _ observability.Provider = (*Provider)(nil)

// New creates a slog-backed observability provider. A nil logger falls back
// to slog.Default().
func New(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{logger: logger}
}

// StartSpan logs the span start at debug level and returns a span that logs
// its end (with wall-clock duration) when End is called.
func (provider *Provider) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		logger: provider.logger,
		name:   name,
		start:  time.Now(),
		attrs:  attrs,
	}
	span.logger.Log(ctx, slog.LevelDebug, "span.start", toSlogArgs(name, attrs)...)
	return observability.WithSpan(ctx, span), span
}

// Debug logs at debug level.
func (provider *Provider) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	provider.logger.Log(ctx, slog.LevelDebug, msg, toSlogArgs("", attrs)...)
}

// Info logs at info level.
func (provider *Provider) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	provider.logger.Log(ctx, slog.LevelInfo, msg, toSlogArgs("", attrs)...)
}

// Warn logs at warn level.
func (provider *Provider) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	provider.logger.Log(ctx, slog.LevelWarn, msg, toSlogArgs("", attrs)...)
}

// Error logs at error level.
func (provider *Provider) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	provider.logger.Log(ctx, slog.LevelError, msg, toSlogArgs("", attrs)...)
}

// slogSpan is the Span implementation returned by StartSpan.
type slogSpan struct {
	logger *slog.Logger
	name   string
	start  time.Time
	attrs  []observability.Attribute
	err    error
}

func (span *slogSpan) End() {
	args := toSlogArgs(span.name, span.attrs)
	args = append(args, slog.Duration("duration", time.Since(span.start)))

	level := slog.LevelDebug
	if span.err != nil {
		level = slog.LevelWarn
		args = append(args, slog.String("error", span.err.Error()))
	}

	span.logger.Log(context.Background(), level, "span.end", args...)
}

func (span *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	span.attrs = append(span.attrs, attrs...)
}

func (span *slogSpan) RecordError(err error) {
	if err != nil {
		span.err = err
	}
}

func (span *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	args := append(toSlogArgs(span.name, attrs), slog.String("event", name))
	span.logger.Log(context.Background(), slog.LevelDebug, "span.event", args...)
}

// toSlogArgs converts attributes to slog key-value arguments, prefixing the
// span name when present.
func toSlogArgs(spanName string, attrs []observability.Attribute) []any {
	args := make([]any, 0, 2*len(attrs)+2)
	if spanName != "" {
		args = append(args, slog.String("span", spanName))
	}
	for _, attr := range attrs {
		args = append(args, slog.Any(attr.Key, attr.Value))
	}
	return args
}
