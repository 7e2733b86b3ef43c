package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// CompetitorAnalysisNode distills the accumulated search results into ranked
// competitor records and a markdown analysis. It consumes the accumulated
// transcript and resets it to bound memory for the rest of the run.
type CompetitorAnalysisNode struct {
	Models *model.Facade
}

var _ Node = (*CompetitorAnalysisNode)(nil)

func (node *CompetitorAnalysisNode) ID() NodeID { return NodeCompetitorAnalysis }

func (node *CompetitorAnalysisNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	emit(NewInternalEvent(node.ID(), "Analyzing competitor content from the search results..."))

	var prompt strings.Builder
	prompt.WriteString("Draft article:\n")
	prompt.WriteString(state.UserInput)
	prompt.WriteString("\n\nMain entities: ")
	prompt.WriteString(strings.Join(state.RetrievedEntities, ", "))
	prompt.WriteString("\n\nSearch results:\n")
	prompt.WriteString(state.AccumulatedSearchResults)

	analysis, err := model.InvokeStructured[competitorAnalysisResult](ctx, node.Models, ai.ChatRequest{
		SystemPrompt: competitorAnalysisPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		return Patch{}, fmt.Errorf("competitor analysis: %w", err)
	}
	if len(analysis.Competitors) == 0 {
		return Patch{}, fmt.Errorf("competitor analysis returned no competitors")
	}

	emit(NewAnswerEvent(node.ID(), map[string]any{
		"competitors": analysis.Competitors,
		"analysis":    analysis.Analysis,
	}))

	// The transcript has served its purpose; clear it so the rest of the run
	// does not carry multi-kilobyte search dumps through every snapshot.
	emptyTranscript := ""

	return Patch{
		CompetitorInformation:    &analysis.Competitors,
		GeneratedSearchQueries:   &analysis.TopQueries,
		CompetitiveAnalysis:      &analysis.Analysis,
		AccumulatedSearchResults: &emptyTranscript,
	}, nil
}
