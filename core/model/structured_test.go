package model

import (
	"context"
	"testing"

	"github.com/newsroom-tools/keywordagent/providers/ai"
)

type extractionPayload struct {
	Entities []string `json:"entities"`
}

func TestInvokeStructuredParsesContent(t *testing.T) {
	var seenRequest ai.ChatRequest
	provider := providerFunc(func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		seenRequest = request
		return &ai.ChatResponse{Content: `{"entities": ["Nvidia", "TSMC"]}`, FinishReason: "stop"}, nil
	})

	facade, err := NewFacade(Ref{Name: "structured", Provider: provider})
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	parsed, err := InvokeStructured[extractionPayload](context.Background(), facade, ai.ChatRequest{})
	if err != nil {
		t.Fatalf("InvokeStructured returned error: %v", err)
	}
	if len(parsed.Entities) != 2 || parsed.Entities[0] != "Nvidia" {
		t.Errorf("parsed = %+v", parsed)
	}

	if seenRequest.ResponseFormat == nil {
		t.Fatal("a response format must be derived from the target type")
	}
	if seenRequest.ResponseFormat.SchemaName != "extraction_payload" {
		t.Errorf("SchemaName = %q, want snake_case of the type name", seenRequest.ResponseFormat.SchemaName)
	}
	if !seenRequest.ResponseFormat.Strict {
		t.Error("structured requests default to strict schemas")
	}
}

func TestInvokeStructuredFallsBackOnUnparseableContent(t *testing.T) {
	broken := &scriptedProvider{response: &ai.ChatResponse{Content: "I cannot produce JSON today", FinishReason: "stop"}}
	working := &scriptedProvider{response: &ai.ChatResponse{Content: `{"entities": ["AMD"]}`, FinishReason: "stop"}}

	facade, err := NewFacade(
		Ref{Name: "broken", Provider: broken},
		Ref{Name: "working", Provider: working},
	)
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	parsed, err := InvokeStructured[extractionPayload](context.Background(), facade, ai.ChatRequest{})
	if err != nil {
		t.Fatalf("InvokeStructured returned error: %v", err)
	}
	if len(parsed.Entities) != 1 || parsed.Entities[0] != "AMD" {
		t.Errorf("parsed = %+v, want the second reference's payload", parsed)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Errorf("calls = [%d %d], want the parse failure to trigger fallback", broken.calls, working.calls)
	}
}

func TestInvokeStructuredSalvagesFencedContent(t *testing.T) {
	provider := &scriptedProvider{response: &ai.ChatResponse{
		Content:      "```json\n{\"entities\": [\"Intel\"]}\n```",
		FinishReason: "stop",
	}}
	facade, err := NewFacade(Ref{Name: "fenced", Provider: provider})
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	parsed, err := InvokeStructured[extractionPayload](context.Background(), facade, ai.ChatRequest{})
	if err != nil {
		t.Fatalf("InvokeStructured returned error: %v", err)
	}
	if len(parsed.Entities) != 1 || parsed.Entities[0] != "Intel" {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestInvokeStructuredKeepsCallerResponseFormat(t *testing.T) {
	custom := &ai.ResponseFormat{SchemaName: "caller_schema"}
	var seenRequest ai.ChatRequest
	provider := providerFunc(func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		seenRequest = request
		return &ai.ChatResponse{Content: `{"entities": []}`}, nil
	})

	facade, err := NewFacade(Ref{Name: "custom", Provider: provider})
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	if _, err := InvokeStructured[extractionPayload](context.Background(), facade, ai.ChatRequest{ResponseFormat: custom}); err != nil {
		t.Fatalf("InvokeStructured returned error: %v", err)
	}
	if seenRequest.ResponseFormat != custom {
		t.Error("a caller-supplied response format must not be replaced")
	}
}

func TestSchemaNameFor(t *testing.T) {
	if got := schemaNameFor[extractionPayload](); got != "extraction_payload" {
		t.Errorf("schemaNameFor = %q", got)
	}
	if got := schemaNameFor[struct{ Field string }](); got != "response" {
		t.Errorf("anonymous type = %q, want the fallback name", got)
	}
}
