// Package observability defines the tracing and structured-logging interfaces
// used across the agent: workflow runs open a root span, every node execution
// and outbound HTTP call becomes a child span, and model fallback attempts are
// logged with their outcome.
//
// The interfaces are backend-agnostic; slogobs provides the default
// implementation on log/slog. A noop provider is used when nothing is
// configured, so instrumented code never needs nil checks beyond
// SpanFromContext.
package observability
