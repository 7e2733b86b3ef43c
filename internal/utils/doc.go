// Package utils contains small internal helpers shared by the provider
// clients: a generic JSON-over-HTTP POST helper with span instrumentation and
// string truncation for log-safe previews of large payloads.
package utils
