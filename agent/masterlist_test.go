package agent

import (
	"context"
	"testing"
)

func TestVerifyMasterlistRestoresMetricsAndDropsUnknownTerms(t *testing.T) {
	merged := []KeywordMetric{
		{Term: "ai chip", CompetitionLevel: "HIGH", CompetitionIndex: 85, AverageMonthlyVolume: 5000},
		{Term: "gpu benchmark", CompetitionLevel: "MEDIUM", CompetitionIndex: 40, AverageMonthlyVolume: 900},
	}

	proposed := []RankedKeyword{
		// The model altered the volume; verification must restore it.
		{Rank: 1, Term: "ai chip", CompetitionLevel: "LOW", CompetitionIndex: 1, AverageMonthlyVolume: 999999},
		// Fabricated term, must be dropped.
		{Rank: 2, Term: "invented keyword", AverageMonthlyVolume: 12345},
		{Rank: 3, Term: "gpu benchmark", CompetitionLevel: "MEDIUM", CompetitionIndex: 40, AverageMonthlyVolume: 900},
	}

	verified := verifyMasterlist(proposed, merged)

	if len(verified) != 2 {
		t.Fatalf("verified = %v, want the fabricated entry dropped", verified)
	}
	if verified[0].AverageMonthlyVolume != 5000 || verified[0].CompetitionLevel != "HIGH" || verified[0].CompetitionIndex != 85 {
		t.Errorf("verified[0] = %+v, want metrics restored from the merged list", verified[0])
	}
	if verified[0].Rank != 1 || verified[1].Rank != 2 {
		t.Errorf("ranks = [%d %d], want renumbered 1..n after drops", verified[0].Rank, verified[1].Rank)
	}
}

func TestVerifyMasterlistDropsDuplicateTerms(t *testing.T) {
	merged := []KeywordMetric{{Term: "dup", AverageMonthlyVolume: 10}}
	proposed := []RankedKeyword{
		{Rank: 1, Term: "dup"},
		{Rank: 2, Term: "dup"},
	}

	verified := verifyMasterlist(proposed, merged)
	if len(verified) != 1 {
		t.Errorf("verified = %v, want duplicate collapsed", verified)
	}
}

func TestMasterlistNodeFiltersSuggestionsOutsideMasterlist(t *testing.T) {
	merged := []KeywordMetric{
		{Term: "kept", CompetitionLevel: "LOW", CompetitionIndex: 10, AverageMonthlyVolume: 300},
	}

	node := &MasterlistNode{Models: facadeReturningJSON(t, masterlistResult{
		Masterlist: []RankedKeyword{{Rank: 1, Term: "kept", CompetitionLevel: "LOW", CompetitionIndex: 10, AverageMonthlyVolume: 300}},
		PrimaryKeywords: []KeywordSuggestion{
			{Term: "kept", Reasoning: "300 monthly searches with low competition"},
			{Term: "not in masterlist", Reasoning: "should be filtered"},
		},
		SecondaryKeywords: []KeywordSuggestion{
			{Term: "also missing", Reasoning: "should be filtered"},
		},
	})}

	emit, _ := collectEvents()
	patch, err := node.Run(context.Background(), State{UserInput: "draft", KeywordMetricsMerged: merged}, emit)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if patch.PrimaryKeywords == nil || len(*patch.PrimaryKeywords) != 1 {
		t.Errorf("PrimaryKeywords = %v, want only the masterlist-backed pick", patch.PrimaryKeywords)
	}
	if patch.SecondaryKeywords == nil || len(*patch.SecondaryKeywords) != 0 {
		t.Errorf("SecondaryKeywords = %v, want the out-of-masterlist pick filtered", patch.SecondaryKeywords)
	}
}

func TestMasterlistNodeFailsWhenNothingVerifiable(t *testing.T) {
	node := &MasterlistNode{Models: facadeReturningJSON(t, masterlistResult{
		Masterlist: []RankedKeyword{{Rank: 1, Term: "entirely invented"}},
	})}

	emit, _ := collectEvents()
	_, err := node.Run(context.Background(), State{
		UserInput:            "draft",
		KeywordMetricsMerged: []KeywordMetric{{Term: "real", AverageMonthlyVolume: 5}},
	}, emit)
	if err == nil {
		t.Fatal("expected an error when no masterlist entry survives verification")
	}
}
