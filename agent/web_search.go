package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/newsroom-tools/keywordagent/internal/jsonschema"
	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/search"
)

// Searcher is the web search capability consumed by the workflow.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// webSearchToolDescription declares the tool the query generator forces the
// model to call.
func webSearchToolDescription() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        webSearchToolName,
		Description: "Search the web for competitor content about the article's topic.",
		Parameters:  jsonschema.For[webSearchArgs](),
	}
}

// WebSearchNode executes the queries from the latest generation round. Not a
// model step: one capability call per query, issued concurrently, joined
// before returning. Results become tool-result messages in query order
// regardless of completion order. A failed query degrades to an error text
// in its slot so the router still sees one block per query.
type WebSearchNode struct {
	Search Searcher
}

var _ Node = (*WebSearchNode)(nil)

func (node *WebSearchNode) ID() NodeID { return NodeWebSearch }

func (node *WebSearchNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	queries := state.GeneratedSearchQueries
	if len(queries) == 0 {
		return Patch{}, fmt.Errorf("web search invoked with no queries")
	}

	toolCallIDs := latestToolCallIDs(state.Messages)

	renderedResults := make([]string, len(queries))
	var wg sync.WaitGroup
	for index, query := range queries {
		emit(NewToolCallEvent(webSearchToolName, map[string]any{"query": query}))

		wg.Add(1)
		go func(index int, query string) {
			defer wg.Done()
			emit(NewToolProcessingEvent(fmt.Sprintf("Searching the web for %q...", query)))

			results, err := node.Search.Search(ctx, query)
			if err != nil {
				renderedResults[index] = fmt.Sprintf("Search failed for '%s': %v", query, err)
				return
			}
			renderedResults[index] = search.RenderResults(query, results)
		}(index, query)
	}
	wg.Wait()

	toolMessages := make([]ai.Message, 0, len(queries))
	for index := range queries {
		message := ai.Message{
			Role:    ai.RoleTool,
			Name:    webSearchToolName,
			Content: renderedResults[index],
		}
		if index < len(toolCallIDs) {
			message.ToolCallID = toolCallIDs[index]
		}
		toolMessages = append(toolMessages, message)
	}

	return Patch{AppendMessages: toolMessages}, nil
}

// latestToolCallIDs returns the tool call IDs of the most recent assistant
// message, so tool-result messages link back to the calls that requested them.
func latestToolCallIDs(messages []ai.Message) []string {
	for index := len(messages) - 1; index >= 0; index-- {
		message := messages[index]
		if message.Role != ai.RoleAssistant {
			continue
		}
		ids := make([]string, 0, len(message.ToolCalls))
		for _, call := range message.ToolCalls {
			ids = append(ids, call.ID)
		}
		return ids
	}
	return nil
}
