package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/core/parse"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// webSearchToolName is the tool the query generator must call.
const webSearchToolName = "web_search"

// maxQueriesPerRound caps how many search queries one round may issue.
const maxQueriesPerRound = 2

// QueryGeneratorNode asks a model for the next round of search queries in
// tool-enforcing mode. A round that produces at least one tool call advances
// the tool call counter; a round with zero tool calls (the model ignored the
// forced tool) leaves the counter untouched so the router sees no progress
// and loops back here. The counter ceiling lives in the router; the superstep
// ceiling in the executor bounds a persistently misbehaving model.
type QueryGeneratorNode struct {
	Models *model.Facade
}

var _ Node = (*QueryGeneratorNode)(nil)

func (node *QueryGeneratorNode) ID() NodeID { return NodeQueryGenerator }

func (node *QueryGeneratorNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	emit(NewInternalEvent(node.ID(), "Generating search queries for competitor research..."))

	response, err := node.Models.Invoke(ctx, ai.ChatRequest{
		SystemPrompt:     queryGeneratorPrompt,
		Messages:         node.buildMessages(state),
		Tools:            []ai.ToolDescription{webSearchToolDescription()},
		ToolChoiceForced: webSearchToolName,
	})
	if err != nil {
		return Patch{}, fmt.Errorf("query generation: %w", err)
	}

	assistantMessage := response.AssistantMessage()

	queries := extractQueries(response.ToolCalls)
	if len(queries) == 0 {
		// Policy violation: the model answered without calling the tool.
		// Return the message without advancing the counter; the router will
		// send the loop back here.
		emit(NewInternalEvent(node.ID(), "The model returned no search queries; retrying query generation."))
		return Patch{
			AppendMessages:         []ai.Message{assistantMessage},
			GeneratedSearchQueries: ptr([]string{}),
		}, nil
	}

	emit(NewInternalContentEvent(node.ID(), map[string]any{"queries": queries}))

	nextCount := state.ToolCallCount + 1
	return Patch{
		AppendMessages:         []ai.Message{assistantMessage},
		GeneratedSearchQueries: &queries,
		ToolCallCount:          &nextCount,
	}, nil
}

// buildMessages assembles the user context: the draft, the entities, and the
// accumulated results from prior rounds when present.
func (node *QueryGeneratorNode) buildMessages(state State) []ai.Message {
	var builder strings.Builder
	builder.WriteString("Draft article:\n")
	builder.WriteString(state.UserInput)
	builder.WriteString("\n\nMain entities: ")
	builder.WriteString(strings.Join(state.RetrievedEntities, ", "))

	if state.AccumulatedSearchResults != "" {
		builder.WriteString("\n\nPrevious search results:\n")
		builder.WriteString(state.AccumulatedSearchResults)
	}

	return []ai.Message{{Role: ai.RoleUser, Content: builder.String()}}
}

// extractQueries pulls distinct query strings from web_search tool calls,
// preserving call order and capping at maxQueriesPerRound.
func extractQueries(toolCalls []ai.ToolCall) []string {
	queries := make([]string, 0, maxQueriesPerRound)
	seen := make(map[string]bool)

	for _, call := range toolCalls {
		if call.Function.Name != webSearchToolName {
			continue
		}
		args, err := parse.ParseStringAs[webSearchArgs](call.Function.Arguments)
		if err != nil || strings.TrimSpace(args.Query) == "" {
			continue
		}
		query := strings.TrimSpace(args.Query)
		if seen[query] {
			continue
		}
		seen[query] = true
		queries = append(queries, query)
		if len(queries) == maxQueriesPerRound {
			break
		}
	}
	return queries
}
