package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// toolCallCeiling is the hard cap on successful search rounds. Once reached,
// the router forces competitor analysis regardless of result quality.
const toolCallCeiling = 2

// RouterNode merges the latest search results into the accumulated transcript
// and decides whether the loop refines its queries or advances to competitor
// analysis. The tool call counter is the sole authority for termination:
// zero means no successful search happened yet (retry), the ceiling forces
// advancement, and the single in-between round is judged by a model.
type RouterNode struct {
	Models *model.Facade
}

var _ Node = (*RouterNode)(nil)

func (node *RouterNode) ID() NodeID { return NodeRouter }

func (node *RouterNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	if state.ToolCallCount == 0 {
		// No successful search round yet. Loop back without touching the
		// accumulated results.
		emit(NewInternalEvent(node.ID(), "No search has completed yet; regenerating queries."))
		return Patch{RouteDecision: ptr(RouteQueryGenerator)}, nil
	}

	accumulated := mergeLatestResults(state)

	if state.ToolCallCount >= toolCallCeiling {
		emit(NewInternalEvent(node.ID(), "Search budget exhausted; moving on to competitor analysis."))
		return Patch{
			RouteDecision:            ptr(RouteCompetitorAnalysis),
			AccumulatedSearchResults: &accumulated,
		}, nil
	}

	emit(NewInternalEvent(node.ID(), "Judging whether the search results are strong enough to analyze..."))

	verdict, err := model.InvokeStructured[routeVerdict](ctx, node.Models, ai.ChatRequest{
		SystemPrompt: routerPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf("Draft article:\n%s\n\nSearch results so far:\n%s", state.UserInput, accumulated)},
		},
	})
	if err != nil {
		return Patch{}, fmt.Errorf("routing decision: %w", err)
	}

	decision := RouteQueryGenerator
	if verdict.Route == string(RouteCompetitorAnalysis) {
		decision = RouteCompetitorAnalysis
	}

	emit(NewInternalContentEvent(node.ID(), map[string]any{
		"route":     string(decision),
		"reasoning": verdict.Reasoning,
	}))

	return Patch{
		RouteDecision:            &decision,
		AccumulatedSearchResults: &accumulated,
	}, nil
}

// mergeLatestResults appends one "Search Query: <q>\n<result>" block per
// query of the latest round, in issue order, to the accumulated transcript.
// Queries without a matching tool result this round are skipped.
func mergeLatestResults(state State) string {
	toolResults := latestToolResults(state.Messages)

	var builder strings.Builder
	builder.WriteString(state.AccumulatedSearchResults)

	for index, query := range state.GeneratedSearchQueries {
		if index >= len(toolResults) {
			break
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString("Search Query: ")
		builder.WriteString(query)
		builder.WriteString("\n")
		builder.WriteString(toolResults[index])
	}

	return builder.String()
}

// latestToolResults returns the contents of the trailing run of tool messages,
// which is exactly the result set of the most recent search round.
func latestToolResults(messages []ai.Message) []string {
	firstTrailing := len(messages)
	for firstTrailing > 0 && messages[firstTrailing-1].Role == ai.RoleTool {
		firstTrailing--
	}

	results := make([]string, 0, len(messages)-firstTrailing)
	for _, message := range messages[firstTrailing:] {
		results = append(results, message.Content)
	}
	return results
}
