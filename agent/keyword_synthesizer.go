package agent

import (
	"context"
	"sort"
)

// KeywordSynthesizerNode joins the two planner branches: merge, deduplicate
// by exact term, drop empty terms, and sort descending by average monthly
// volume with a stable sort so equal-volume terms keep first-seen order.
// Pure data transformation, no model or capability calls.
type KeywordSynthesizerNode struct{}

var _ Node = (*KeywordSynthesizerNode)(nil)

func (node *KeywordSynthesizerNode) ID() NodeID { return NodeKeywordSynthesizer }

func (node *KeywordSynthesizerNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	merged := MergeKeywordMetrics(state.KeywordMetricsBranchA, state.KeywordMetricsBranchB)

	emit(NewInternalContentEvent(node.ID(), map[string]any{
		"merged_keyword_count": len(merged),
	}))

	// Branches are transient; clear them once merged.
	emptyBranch := []KeywordMetric{}

	return Patch{
		KeywordMetricsMerged:  &merged,
		KeywordMetricsBranchA: &emptyBranch,
		KeywordMetricsBranchB: &emptyBranch,
	}, nil
}

// MergeKeywordMetrics merges two metric lists: branch A entries first, then
// branch B, deduplicated by exact term in one pass, empty terms discarded,
// sorted descending by average monthly volume (stable, so ties preserve the
// original relative order).
func MergeKeywordMetrics(branchA, branchB []KeywordMetric) []KeywordMetric {
	merged := make([]KeywordMetric, 0, len(branchA)+len(branchB))
	seen := make(map[string]bool, len(branchA)+len(branchB))

	for _, metric := range append(append([]KeywordMetric{}, branchA...), branchB...) {
		if metric.Term == "" || seen[metric.Term] {
			continue
		}
		seen[metric.Term] = true
		merged = append(merged, metric)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].AverageMonthlyVolume > merged[j].AverageMonthlyVolume
	})

	return merged
}
