package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// SuggestionsNode is the terminal node: it turns the keyword picks and the
// competitive analysis into a URL slug, headline candidates, and sentence
// level keyword insertions for the draft.
type SuggestionsNode struct {
	Models *model.Facade
}

var _ Node = (*SuggestionsNode)(nil)

func (node *SuggestionsNode) ID() NodeID { return NodeSuggestions }

func (node *SuggestionsNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	emit(NewInternalEvent(node.ID(), "Writing SEO suggestions for the draft..."))

	var prompt strings.Builder
	prompt.WriteString("Draft article:\n")
	prompt.WriteString(state.UserInput)
	prompt.WriteString("\n\nPrimary keywords:\n")
	writeSuggestionList(&prompt, state.PrimaryKeywords)
	prompt.WriteString("\nSecondary keywords:\n")
	writeSuggestionList(&prompt, state.SecondaryKeywords)
	prompt.WriteString("\nCompetitive analysis:\n")
	prompt.WriteString(state.CompetitiveAnalysis)

	result, err := model.InvokeStructured[suggestionsResult](ctx, node.Models, ai.ChatRequest{
		SystemPrompt: suggestionsPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		return Patch{}, fmt.Errorf("suggestion generation: %w", err)
	}

	emit(NewAnswerEvent(node.ID(), map[string]any{
		"url_slug":          result.URLSlug,
		"headlines":         result.Headlines,
		"revised_sentences": result.RevisedSentences,
	}))

	return Patch{
		SuggestedURLSlug:   &result.URLSlug,
		SuggestedHeadlines: &result.Headlines,
		FinalAnswer:        &result.RevisedSentences,
	}, nil
}

func writeSuggestionList(builder *strings.Builder, suggestions []KeywordSuggestion) {
	for _, suggestion := range suggestions {
		builder.WriteString("- ")
		builder.WriteString(suggestion.Term)
		builder.WriteString(": ")
		builder.WriteString(suggestion.Reasoning)
		builder.WriteString("\n")
	}
}
