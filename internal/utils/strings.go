package utils

import "fmt"

// DefaultMaxStringLength is the fallback limit applied when a caller passes a
// non-positive maximum to TruncateString.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen characters, appending a marker
// with the original length. Strings within the limit are returned unchanged.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
