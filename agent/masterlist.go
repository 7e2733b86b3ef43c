package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// MasterlistNode asks a model to rank the top 10 keywords and pick primary
// and secondary keywords with reasoning. The model is instructed to copy
// metrics verbatim; because instruction-following is not a guarantee, the
// node runs a verification pass afterwards that restores every metric field
// from the merged list by exact term match and drops entries whose term does
// not exist upstream.
type MasterlistNode struct {
	Models *model.Facade
}

var _ Node = (*MasterlistNode)(nil)

func (node *MasterlistNode) ID() NodeID { return NodeMasterlist }

func (node *MasterlistNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	emit(NewInternalEvent(node.ID(), "Building the keyword masterlist and selecting primary keywords..."))

	metricsJSON, err := json.Marshal(state.KeywordMetricsMerged)
	if err != nil {
		return Patch{}, fmt.Errorf("masterlist: marshal merged metrics: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString("Draft article:\n")
	prompt.WriteString(state.UserInput)
	prompt.WriteString("\n\nMain entities: ")
	prompt.WriteString(strings.Join(state.RetrievedEntities, ", "))
	prompt.WriteString("\n\nCompetitive analysis:\n")
	prompt.WriteString(state.CompetitiveAnalysis)
	prompt.WriteString("\n\nMerged keyword metrics (JSON):\n")
	prompt.Write(metricsJSON)

	result, err := model.InvokeStructured[masterlistResult](ctx, node.Models, ai.ChatRequest{
		SystemPrompt: masterlistPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt.String()},
		},
	})
	if err != nil {
		return Patch{}, fmt.Errorf("masterlist generation: %w", err)
	}

	masterlist := verifyMasterlist(result.Masterlist, state.KeywordMetricsMerged)
	if len(masterlist) == 0 {
		return Patch{}, fmt.Errorf("masterlist generation produced no verifiable entries")
	}

	primary := filterSuggestions(result.PrimaryKeywords, masterlist)
	secondary := filterSuggestions(result.SecondaryKeywords, masterlist)

	emit(NewAnswerEvent(node.ID(), map[string]any{
		"masterlist":         masterlist,
		"primary_keywords":   primary,
		"secondary_keywords": secondary,
	}))

	return Patch{
		KeywordMasterlist: &masterlist,
		PrimaryKeywords:   &primary,
		SecondaryKeywords: &secondary,
	}, nil
}

// verifyMasterlist enforces data fidelity: each entry's term must exist in
// the merged metrics, and its metric fields are overwritten with the upstream
// values so a drifting model cannot alter them. The model keeps only the
// ranking; ranks are renumbered after unverifiable entries are dropped.
func verifyMasterlist(proposed []RankedKeyword, merged []KeywordMetric) []RankedKeyword {
	byTerm := make(map[string]KeywordMetric, len(merged))
	for _, metric := range merged {
		byTerm[metric.Term] = metric
	}

	verified := make([]RankedKeyword, 0, len(proposed))
	seen := make(map[string]bool, len(proposed))
	for _, entry := range proposed {
		metric, exists := byTerm[entry.Term]
		if !exists || seen[entry.Term] {
			continue
		}
		seen[entry.Term] = true
		verified = append(verified, RankedKeyword{
			Rank:                 len(verified) + 1,
			Term:                 metric.Term,
			CompetitionLevel:     metric.CompetitionLevel,
			CompetitionIndex:     metric.CompetitionIndex,
			AverageMonthlyVolume: metric.AverageMonthlyVolume,
		})
	}
	return verified
}

// filterSuggestions drops suggestions whose term is not in the verified
// masterlist.
func filterSuggestions(suggestions []KeywordSuggestion, masterlist []RankedKeyword) []KeywordSuggestion {
	inMasterlist := make(map[string]bool, len(masterlist))
	for _, entry := range masterlist {
		inMasterlist[entry.Term] = true
	}

	filtered := make([]KeywordSuggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if inMasterlist[suggestion.Term] {
			filtered = append(filtered, suggestion)
		}
	}
	return filtered
}
