package model

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/newsroom-tools/keywordagent/core/parse"
	"github.com/newsroom-tools/keywordagent/internal/jsonschema"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// InvokeStructured sends the request through the facade's chain with a
// structured-output format derived from T, and parses the response content
// into T. A response whose content cannot be parsed counts as a failed
// attempt and falls through to the next reference in the chain.
//
// Example:
//
//	type EntityExtraction struct {
//	    Entities []string `json:"entities" jsonschema:"description=Named entities found in the article"`
//	}
//
//	extraction, err := model.InvokeStructured[EntityExtraction](ctx, facade, ai.ChatRequest{
//	    SystemPrompt: entityExtractorPrompt,
//	    Messages:     []ai.Message{{Role: ai.RoleUser, Content: articleText}},
//	})
func InvokeStructured[T any](ctx context.Context, facade *Facade, request ai.ChatRequest) (T, error) {
	var parsed T

	if request.ResponseFormat == nil {
		request.ResponseFormat = &ai.ResponseFormat{
			OutputSchema: jsonschema.For[T](),
			SchemaName:   schemaNameFor[T](),
			Strict:       true,
		}
	}

	_, err := facade.invokeWith(ctx, request, func(response *ai.ChatResponse) error {
		if response.Content == "" {
			return fmt.Errorf("model returned empty content for structured request")
		}
		var parseErr error
		parsed, parseErr = parse.ParseStringAs[T](response.Content)
		if parseErr != nil {
			return fmt.Errorf("structured output parse failed: %w", parseErr)
		}
		return nil
	})
	return parsed, err
}

// schemaNameFor derives a wire-safe schema name from the type name of T,
// converting CamelCase to snake_case. Anonymous types fall back to "response".
func schemaNameFor[T any]() string {
	typeName := reflect.TypeFor[T]().Name()
	if typeName == "" {
		return "response"
	}

	var builder strings.Builder
	for index, char := range typeName {
		if unicode.IsUpper(char) {
			if index > 0 {
				builder.WriteByte('_')
			}
			builder.WriteRune(unicode.ToLower(char))
			continue
		}
		builder.WriteRune(char)
	}
	return builder.String()
}
