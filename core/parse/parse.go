// Package parse converts raw model output into typed Go values. Model text is
// rarely clean JSON: answers arrive wrapped in markdown code fences, with
// trailing commas, single quotes or unquoted keys. ParseStringAs strips the
// wrapping and repairs malformed JSON before giving up.
package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs parses model output into the target type T.
//
// For primitive targets (string, bool, integers, floats) it converts the
// trimmed content directly. For structs, maps and slices it unmarshals JSON,
// first as-is, then after stripping a markdown code fence, then after running
// the content through jsonrepair.
//
// Example:
//
//	type RouteDecision struct {
//	    NextNode string `json:"next_node"`
//	}
//
//	decision, err := parse.ParseStringAs[RouteDecision]("```json\n{\"next_node\": \"competitor_analysis\"}\n```")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	trimmed := strings.TrimSpace(content)

	switch reflect.TypeFor[T]().Kind() {
	case reflect.String:
		reflect.ValueOf(&result).Elem().SetString(content)
		return result, nil

	case reflect.Bool:
		parsedBool, err := strconv.ParseBool(trimmed)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetBool(parsedBool)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsedInt, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetInt(parsedInt)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsedUint, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetUint(parsedUint)
		return result, nil

	case reflect.Float32, reflect.Float64:
		parsedFloat, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetFloat(parsedFloat)
		return result, nil

	default:
		candidate := StripCodeFence(trimmed)

		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}

		repairedJSON, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil {
			return result, fmt.Errorf("failed to parse content as %T and failed to repair JSON: %v (content: %s)", result, repairErr, candidate)
		}

		if err := json.Unmarshal([]byte(repairedJSON), &result); err != nil {
			return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original: %s, repaired: %s)", result, err, candidate, repairedJSON)
		}
		return result, nil
	}
}

// StripCodeFence removes a surrounding markdown code fence, including an
// optional language tag on the opening line. Content without a fence is
// returned unchanged.
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	withoutOpening := strings.TrimPrefix(trimmed, "```")
	if newlineIndex := strings.IndexByte(withoutOpening, '\n'); newlineIndex >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		firstLine := strings.TrimSpace(withoutOpening[:newlineIndex])
		if firstLine == "" || isLanguageTag(firstLine) {
			withoutOpening = withoutOpening[newlineIndex+1:]
		}
	}

	withoutClosing := strings.TrimSpace(withoutOpening)
	withoutClosing = strings.TrimSuffix(withoutClosing, "```")
	return strings.TrimSpace(withoutClosing)
}

// isLanguageTag reports whether s looks like a code fence language tag rather
// than content (a single short alphanumeric word).
func isLanguageTag(s string) bool {
	if len(s) > 16 {
		return false
	}
	for _, char := range s {
		if (char < 'a' || char > 'z') && (char < 'A' || char > 'Z') && (char < '0' || char > '9') {
			return false
		}
	}
	return true
}
