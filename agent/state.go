package agent

import "github.com/newsroom-tools/keywordagent/providers/ai"

// RouteDecision is the router node's verdict on where the research loop goes
// next.
type RouteDecision string

const (
	RouteQueryGenerator     RouteDecision = "query_generator"
	RouteCompetitorAnalysis RouteDecision = "competitor_analysis"
)

// CompetitorRecord is one ranked competitor page selected by the analysis
// node. Rank is assigned by the model; duplicate ranks are tolerated as a
// data-quality defect, not an error.
type CompetitorRecord struct {
	Rank          int    `json:"rank" jsonschema:"description=Relevance rank starting at 1"`
	URL           string `json:"url" jsonschema:"description=Competitor page URL copied verbatim from the search results"`
	Title         string `json:"title" jsonschema:"description=Page title copied verbatim"`
	PublishedDate string `json:"published_date,omitempty" jsonschema:"description=Publication date if known"`
	Highlights    string `json:"highlights" jsonschema:"description=Relevant excerpt from the page copied verbatim"`
}

// KeywordMetric is one keyword with its planner metrics.
type KeywordMetric struct {
	Term                 string `json:"term"`
	CompetitionLevel     string `json:"competition_level"`
	CompetitionIndex     int    `json:"competition_index"`
	AverageMonthlyVolume int    `json:"average_monthly_volume"`
}

// RankedKeyword is a masterlist entry: a keyword metric plus its rank.
type RankedKeyword struct {
	Rank                 int    `json:"rank" jsonschema:"description=Position in the masterlist starting at 1"`
	Term                 string `json:"term" jsonschema:"description=Keyword term copied verbatim from the merged metrics"`
	CompetitionLevel     string `json:"competition_level" jsonschema:"description=LOW MEDIUM or HIGH copied verbatim"`
	CompetitionIndex     int    `json:"competition_index" jsonschema:"description=Competition index 0-100 copied verbatim"`
	AverageMonthlyVolume int    `json:"average_monthly_volume" jsonschema:"description=Average monthly search volume copied verbatim"`
}

// KeywordSuggestion is a primary or secondary keyword pick with the model's
// justification.
type KeywordSuggestion struct {
	Term      string `json:"term" jsonschema:"description=Keyword term matching a masterlist entry exactly"`
	Reasoning string `json:"reasoning" jsonschema:"description=Why this keyword was chosen with reference to metrics and the competitive analysis"`
}

// State is the workflow state threaded through the graph. It is created once
// per run, owned exclusively by the executor, and mutated only through
// patches. Nodes receive a snapshot and must never retain it past their
// return.
type State struct {
	// UserInput is the draft article. Immutable after creation.
	UserInput string

	// RetrievedEntities is set once by the entity extraction node.
	RetrievedEntities []string

	// Messages is the conversation history. Append-only: patches may add
	// messages but never replace or shrink the list.
	Messages []ai.Message

	// GeneratedSearchQueries holds the queries from the latest
	// query-generation round; overwritten each round.
	GeneratedSearchQueries []string

	// ToolCallCount counts successful tool-invoking search rounds. It never
	// decreases and is the sole authority for loop termination.
	ToolCallCount int

	// AccumulatedSearchResults is the formatted transcript of search results
	// keyed by query. Reset to empty once competitor analysis has consumed it.
	AccumulatedSearchResults string

	// RouteDecision is transient: written by the router node, consumed
	// immediately by its routing function.
	RouteDecision RouteDecision

	CompetitorInformation []CompetitorRecord
	CompetitiveAnalysis   string

	// KeywordMetricsBranchA and KeywordMetricsBranchB are transient parallel
	// branch outputs, cleared by the synthesis node after merging.
	KeywordMetricsBranchA []KeywordMetric
	KeywordMetricsBranchB []KeywordMetric
	KeywordMetricsMerged  []KeywordMetric

	KeywordMasterlist []RankedKeyword
	PrimaryKeywords   []KeywordSuggestion
	SecondaryKeywords []KeywordSuggestion

	SuggestedURLSlug   string
	SuggestedHeadlines []string
	FinalAnswer        string
}

// Clone returns a deep copy of the state. The executor hands clones to nodes
// so a node can never observe or affect the live state.
func (state State) Clone() State {
	cloned := state
	cloned.RetrievedEntities = cloneSlice(state.RetrievedEntities)
	cloned.Messages = cloneSlice(state.Messages)
	cloned.GeneratedSearchQueries = cloneSlice(state.GeneratedSearchQueries)
	cloned.CompetitorInformation = cloneSlice(state.CompetitorInformation)
	cloned.KeywordMetricsBranchA = cloneSlice(state.KeywordMetricsBranchA)
	cloned.KeywordMetricsBranchB = cloneSlice(state.KeywordMetricsBranchB)
	cloned.KeywordMetricsMerged = cloneSlice(state.KeywordMetricsMerged)
	cloned.KeywordMasterlist = cloneSlice(state.KeywordMasterlist)
	cloned.PrimaryKeywords = cloneSlice(state.PrimaryKeywords)
	cloned.SecondaryKeywords = cloneSlice(state.SecondaryKeywords)
	cloned.SuggestedHeadlines = cloneSlice(state.SuggestedHeadlines)
	return cloned
}

func cloneSlice[T any](source []T) []T {
	if source == nil {
		return nil
	}
	cloned := make([]T, len(source))
	copy(cloned, source)
	return cloned
}

// Patch is a partial state update returned by a node. Every field except
// AppendMessages uses overwrite semantics: nil means "no change", a non-nil
// pointer replaces the current value wholesale, and a pointer to a zero value
// is an explicit reset. AppendMessages is the single append-policy field.
type Patch struct {
	// AppendMessages is concatenated to State.Messages, never replacing it.
	AppendMessages []ai.Message

	RetrievedEntities        *[]string
	GeneratedSearchQueries   *[]string
	ToolCallCount            *int
	AccumulatedSearchResults *string
	RouteDecision            *RouteDecision
	CompetitorInformation    *[]CompetitorRecord
	CompetitiveAnalysis      *string
	KeywordMetricsBranchA    *[]KeywordMetric
	KeywordMetricsBranchB    *[]KeywordMetric
	KeywordMetricsMerged     *[]KeywordMetric
	KeywordMasterlist        *[]RankedKeyword
	PrimaryKeywords          *[]KeywordSuggestion
	SecondaryKeywords        *[]KeywordSuggestion
	SuggestedURLSlug         *string
	SuggestedHeadlines       *[]string
	FinalAnswer              *string
}

// IsZero reports whether the patch changes nothing.
func (patch Patch) IsZero() bool {
	return len(patch.AppendMessages) == 0 &&
		patch.RetrievedEntities == nil &&
		patch.GeneratedSearchQueries == nil &&
		patch.ToolCallCount == nil &&
		patch.AccumulatedSearchResults == nil &&
		patch.RouteDecision == nil &&
		patch.CompetitorInformation == nil &&
		patch.CompetitiveAnalysis == nil &&
		patch.KeywordMetricsBranchA == nil &&
		patch.KeywordMetricsBranchB == nil &&
		patch.KeywordMetricsMerged == nil &&
		patch.KeywordMasterlist == nil &&
		patch.PrimaryKeywords == nil &&
		patch.SecondaryKeywords == nil &&
		patch.SuggestedURLSlug == nil &&
		patch.SuggestedHeadlines == nil &&
		patch.FinalAnswer == nil
}

// Apply merges a patch into the state and returns the result. Messages are
// appended; every other set field overwrites. ToolCallCount decreases are
// ignored so the counter stays monotonically non-decreasing no matter what a
// node returns.
func Apply(state State, patch Patch) State {
	next := state

	if len(patch.AppendMessages) > 0 {
		merged := make([]ai.Message, 0, len(state.Messages)+len(patch.AppendMessages))
		merged = append(merged, state.Messages...)
		merged = append(merged, patch.AppendMessages...)
		next.Messages = merged
	}

	if patch.RetrievedEntities != nil {
		next.RetrievedEntities = *patch.RetrievedEntities
	}
	if patch.GeneratedSearchQueries != nil {
		next.GeneratedSearchQueries = *patch.GeneratedSearchQueries
	}
	if patch.ToolCallCount != nil && *patch.ToolCallCount > state.ToolCallCount {
		next.ToolCallCount = *patch.ToolCallCount
	}
	if patch.AccumulatedSearchResults != nil {
		next.AccumulatedSearchResults = *patch.AccumulatedSearchResults
	}
	if patch.RouteDecision != nil {
		next.RouteDecision = *patch.RouteDecision
	}
	if patch.CompetitorInformation != nil {
		next.CompetitorInformation = *patch.CompetitorInformation
	}
	if patch.CompetitiveAnalysis != nil {
		next.CompetitiveAnalysis = *patch.CompetitiveAnalysis
	}
	if patch.KeywordMetricsBranchA != nil {
		next.KeywordMetricsBranchA = *patch.KeywordMetricsBranchA
	}
	if patch.KeywordMetricsBranchB != nil {
		next.KeywordMetricsBranchB = *patch.KeywordMetricsBranchB
	}
	if patch.KeywordMetricsMerged != nil {
		next.KeywordMetricsMerged = *patch.KeywordMetricsMerged
	}
	if patch.KeywordMasterlist != nil {
		next.KeywordMasterlist = *patch.KeywordMasterlist
	}
	if patch.PrimaryKeywords != nil {
		next.PrimaryKeywords = *patch.PrimaryKeywords
	}
	if patch.SecondaryKeywords != nil {
		next.SecondaryKeywords = *patch.SecondaryKeywords
	}
	if patch.SuggestedURLSlug != nil {
		next.SuggestedURLSlug = *patch.SuggestedURLSlug
	}
	if patch.SuggestedHeadlines != nil {
		next.SuggestedHeadlines = *patch.SuggestedHeadlines
	}
	if patch.FinalAnswer != nil {
		next.FinalAnswer = *patch.FinalAnswer
	}

	return next
}

// Pointer helpers for building patches.

func ptr[T any](value T) *T { return &value }
