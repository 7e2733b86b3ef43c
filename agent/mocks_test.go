package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/keywords"
	"github.com/newsroom-tools/keywordagent/providers/search"
)

// mockProvider scripts model responses for node tests. The respond callback
// receives every request; recorded requests allow asserting on prompts.
type mockProvider struct {
	mu       sync.Mutex
	respond  func(request ai.ChatRequest) (*ai.ChatResponse, error)
	requests []ai.ChatRequest
}

var _ ai.Provider = (*mockProvider)(nil)

func (m *mockProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	m.mu.Unlock()
	return m.respond(request)
}

func (m *mockProvider) IsStopMessage(*ai.ChatResponse) bool     { return true }
func (m *mockProvider) WithAPIKey(string) ai.Provider           { return m }
func (m *mockProvider) WithBaseURL(string) ai.Provider          { return m }
func (m *mockProvider) WithHttpClient(*http.Client) ai.Provider { return m }

func (m *mockProvider) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// facadeReturningJSON builds a single-ref facade whose model always answers
// with the JSON encoding of payload.
func facadeReturningJSON(t *testing.T, payload any) *model.Facade {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return facadeWith(t, func(ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Content: string(encoded), FinishReason: "stop"}, nil
	})
}

// facadeWith builds a single-ref facade over a scripted provider.
func facadeWith(t *testing.T, respond func(ai.ChatRequest) (*ai.ChatResponse, error)) *model.Facade {
	t.Helper()
	facade, err := model.NewFacade(model.Ref{Name: "mock-model", Provider: &mockProvider{respond: respond}})
	if err != nil {
		t.Fatalf("failed to build facade: %v", err)
	}
	return facade
}

// mockSearcher scripts the web search capability.
type mockSearcher struct {
	mu      sync.Mutex
	results map[string][]search.Result
	err     error
	queries []string
}

var _ Searcher = (*mockSearcher)(nil)

func (m *mockSearcher) Search(_ context.Context, query string) ([]search.Result, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

// mockPlanner scripts the keyword metrics capability, keyed by seed URL.
type mockPlanner struct {
	mu       sync.Mutex
	ideasFor map[string][]keywords.KeywordIdea
	err      error
	seedURLs []string
}

var _ KeywordPlanner = (*mockPlanner)(nil)

func (m *mockPlanner) GenerateIdeas(_ context.Context, _ []string, siteURL string) ([]keywords.KeywordIdea, error) {
	m.mu.Lock()
	m.seedURLs = append(m.seedURLs, siteURL)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.ideasFor[siteURL], nil
}

// collectEvents returns an EmitFunc that appends into a shared slice, plus a
// reader for assertions after the run.
func collectEvents() (EmitFunc, func() []Event) {
	var mu sync.Mutex
	var events []Event
	emit := func(event Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	}
	read := func() []Event {
		mu.Lock()
		defer mu.Unlock()
		copied := make([]Event, len(events))
		copy(copied, events)
		return copied
	}
	return emit, read
}

// toolCallResponse builds an assistant response carrying web_search calls.
func toolCallResponse(queries ...string) *ai.ChatResponse {
	calls := make([]ai.ToolCall, 0, len(queries))
	for index, query := range queries {
		args, _ := json.Marshal(map[string]string{"query": query})
		calls = append(calls, ai.ToolCall{
			ID:       "call_" + string(rune('a'+index)),
			Type:     "function",
			Function: ai.ToolCallFunction{Name: webSearchToolName, Arguments: string(args)},
		})
	}
	return &ai.ChatResponse{ToolCalls: calls, FinishReason: "tool_calls"}
}
