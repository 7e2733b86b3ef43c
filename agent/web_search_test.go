package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/search"
)

func TestWebSearchResultsKeepQueryOrder(t *testing.T) {
	searcher := &mockSearcher{results: map[string][]search.Result{
		"first query":  {{Title: "First Page", URL: "https://one.example"}},
		"second query": {{Title: "Second Page", URL: "https://two.example"}},
	}}
	node := &WebSearchNode{Search: searcher}

	state := State{
		GeneratedSearchQueries: []string{"first query", "second query"},
		Messages: []ai.Message{{
			Role: ai.RoleAssistant,
			ToolCalls: []ai.ToolCall{
				{ID: "call_1", Type: "function"},
				{ID: "call_2", Type: "function"},
			},
		}},
	}

	emit, _ := collectEvents()
	patch, err := node.Run(context.Background(), state, emit)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(patch.AppendMessages) != 2 {
		t.Fatalf("got %d tool messages, want 2", len(patch.AppendMessages))
	}
	if !strings.Contains(patch.AppendMessages[0].Content, "First Page") {
		t.Errorf("message 0 = %q, want first query's results", patch.AppendMessages[0].Content)
	}
	if !strings.Contains(patch.AppendMessages[1].Content, "Second Page") {
		t.Errorf("message 1 = %q, want second query's results", patch.AppendMessages[1].Content)
	}
	if patch.AppendMessages[0].ToolCallID != "call_1" || patch.AppendMessages[1].ToolCallID != "call_2" {
		t.Errorf("tool call IDs = [%s %s], want linked in order",
			patch.AppendMessages[0].ToolCallID, patch.AppendMessages[1].ToolCallID)
	}
	for index, message := range patch.AppendMessages {
		if message.Role != ai.RoleTool || message.Name != webSearchToolName {
			t.Errorf("message %d = %+v, want a web_search tool message", index, message)
		}
	}
}

func TestWebSearchFailureDegradesToErrorText(t *testing.T) {
	node := &WebSearchNode{Search: &mockSearcher{err: errors.New("search backend down")}}

	state := State{GeneratedSearchQueries: []string{"doomed query"}}

	emit, _ := collectEvents()
	patch, err := node.Run(context.Background(), state, emit)
	if err != nil {
		t.Fatalf("a failed search must not fail the node, got: %v", err)
	}
	if len(patch.AppendMessages) != 1 {
		t.Fatalf("got %d messages, want 1", len(patch.AppendMessages))
	}
	if !strings.Contains(patch.AppendMessages[0].Content, "Search failed") {
		t.Errorf("message = %q, want failure text in the result slot", patch.AppendMessages[0].Content)
	}
}

func TestWebSearchEmitsToolCallEvents(t *testing.T) {
	node := &WebSearchNode{Search: &mockSearcher{results: map[string][]search.Result{}}}

	state := State{GeneratedSearchQueries: []string{"query one", "query two"}}

	emit, readEvents := collectEvents()
	if _, err := node.Run(context.Background(), state, emit); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	toolCallCount := 0
	for _, event := range readEvents() {
		if event.Type == EventToolCall {
			toolCallCount++
			if event.ToolName != webSearchToolName {
				t.Errorf("tool_name = %q, want %q", event.ToolName, webSearchToolName)
			}
		}
	}
	if toolCallCount != 2 {
		t.Errorf("got %d tool_call events, want one per query", toolCallCount)
	}
}

func TestWebSearchWithoutQueriesFails(t *testing.T) {
	node := &WebSearchNode{Search: &mockSearcher{}}
	emit, _ := collectEvents()
	if _, err := node.Run(context.Background(), State{}, emit); err == nil {
		t.Fatal("expected an error when no queries are available")
	}
}
