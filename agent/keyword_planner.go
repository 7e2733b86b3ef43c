package agent

import (
	"context"
	"fmt"

	"github.com/newsroom-tools/keywordagent/providers/keywords"
)

// KeywordPlanner is the keyword-metrics capability consumed by the workflow.
type KeywordPlanner interface {
	GenerateIdeas(ctx context.Context, seedKeywords []string, siteURL string) ([]keywords.KeywordIdea, error)
}

// plannerBranch selects which transient state field a planner node fills and
// which competitor URL seeds it.
type plannerBranch int

const (
	branchA plannerBranch = iota
	branchB
)

// KeywordPlannerNode is one of the two symmetric keyword-metrics branches
// that run concurrently in the same superstep. Branch A seeds with the
// rank-1 competitor URL; branch B looks for the first record whose rank is
// exactly 2 (not positional index 1, so duplicate or missing ranks from the
// analysis stay tolerable) and falls back to no URL. A capability failure
// degrades the branch to an empty list instead of failing the run.
type KeywordPlannerNode struct {
	Planner KeywordPlanner
	branch  plannerBranch
}

var _ Node = (*KeywordPlannerNode)(nil)

// NewKeywordPlannerBranchA creates the rank-1 branch.
func NewKeywordPlannerBranchA(planner KeywordPlanner) *KeywordPlannerNode {
	return &KeywordPlannerNode{Planner: planner, branch: branchA}
}

// NewKeywordPlannerBranchB creates the rank-2 branch.
func NewKeywordPlannerBranchB(planner KeywordPlanner) *KeywordPlannerNode {
	return &KeywordPlannerNode{Planner: planner, branch: branchB}
}

func (node *KeywordPlannerNode) ID() NodeID {
	if node.branch == branchA {
		return NodeKeywordPlannerA
	}
	return NodeKeywordPlannerB
}

func (node *KeywordPlannerNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	seedURL := node.seedURL(state.CompetitorInformation)

	emit(NewInternalEvent(node.ID(), "Fetching keyword metrics from the keyword planner..."))

	metrics := []KeywordMetric{}
	ideas, err := node.Planner.GenerateIdeas(ctx, state.RetrievedEntities, seedURL)
	if err != nil {
		// Degraded, not fatal: the synthesis node merges whatever the other
		// branch produced.
		emit(NewErrorEvent(node.ID(), fmt.Sprintf("keyword metrics unavailable: %v", err)))
	} else {
		metrics = metricsFromIdeas(ideas)
	}

	if node.branch == branchA {
		return Patch{KeywordMetricsBranchA: &metrics}, nil
	}
	return Patch{KeywordMetricsBranchB: &metrics}, nil
}

// seedURL picks the branch's competitor URL from the analysis output.
func (node *KeywordPlannerNode) seedURL(competitors []CompetitorRecord) string {
	wantedRank := 1
	if node.branch == branchB {
		wantedRank = 2
	}
	for _, competitor := range competitors {
		if competitor.Rank == wantedRank {
			return competitor.URL
		}
	}
	return ""
}

// metricsFromIdeas converts planner ideas into workflow keyword metrics.
func metricsFromIdeas(ideas []keywords.KeywordIdea) []KeywordMetric {
	metrics := make([]KeywordMetric, 0, len(ideas))
	for _, idea := range ideas {
		metrics = append(metrics, KeywordMetric{
			Term:                 idea.Text,
			CompetitionLevel:     idea.Competition,
			CompetitionIndex:     idea.CompetitionIndex,
			AverageMonthlyVolume: idea.AverageMonthlySearches,
		})
	}
	return metrics
}
