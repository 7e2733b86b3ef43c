package agent

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/observability"
)

// Config wires the workflow's collaborators. Each model-invoking node gets
// its own facade so fallback chains can differ per node; capability clients
// are shared.
type Config struct {
	EntityModels     *model.Facade
	QueryModels      *model.Facade
	RouterModels     *model.Facade
	AnalysisModels   *model.Facade
	MasterlistModels *model.Facade
	SuggestionModels *model.Facade

	Search  Searcher
	Planner KeywordPlanner

	// MaxSupersteps overrides the executor ceiling when positive.
	MaxSupersteps int
}

// Workflow is the assembled keyword research graph, ready to run once per
// request. A Workflow is stateless across runs and safe for concurrent use.
type Workflow struct {
	graph *Graph
}

// NewWorkflow builds the graph:
//
//	entity_extractor → query_generator → web_search → router
//	      router → query_generator (loop) | competitor_analysis
//	      competitor_analysis → {planner A ∥ planner B} → synthesizer
//	      synthesizer → masterlist → suggestions (terminal)
func NewWorkflow(cfg Config) (*Workflow, error) {
	if cfg.Search == nil {
		return nil, fmt.Errorf("workflow requires a search client")
	}
	if cfg.Planner == nil {
		return nil, fmt.Errorf("workflow requires a keyword planner client")
	}
	for _, facade := range []struct {
		name   string
		facade *model.Facade
	}{
		{"entity", cfg.EntityModels},
		{"query", cfg.QueryModels},
		{"router", cfg.RouterModels},
		{"analysis", cfg.AnalysisModels},
		{"masterlist", cfg.MasterlistModels},
		{"suggestions", cfg.SuggestionModels},
	} {
		if facade.facade == nil {
			return nil, fmt.Errorf("workflow requires a %s model facade", facade.name)
		}
	}

	var opts []GraphOption
	if cfg.MaxSupersteps > 0 {
		opts = append(opts, WithMaxSupersteps(cfg.MaxSupersteps))
	}
	graph := NewGraph(NodeEntityExtractor, opts...)

	registrations := []struct {
		node  Node
		route RouteFunc
	}{
		{&EntityExtractorNode{Models: cfg.EntityModels}, routeTo(NodeQueryGenerator)},
		{&QueryGeneratorNode{Models: cfg.QueryModels}, routeAfterQueryGeneration},
		{&WebSearchNode{Search: cfg.Search}, routeTo(NodeRouter)},
		{&RouterNode{Models: cfg.RouterModels}, routeAfterRouter},
		{&CompetitorAnalysisNode{Models: cfg.AnalysisModels}, routeTo(NodeKeywordPlannerA, NodeKeywordPlannerB)},
		{NewKeywordPlannerBranchA(cfg.Planner), routeTo(NodeKeywordSynthesizer)},
		{NewKeywordPlannerBranchB(cfg.Planner), routeTo(NodeKeywordSynthesizer)},
		{&KeywordSynthesizerNode{}, routeTo(NodeMasterlist)},
		{&MasterlistNode{Models: cfg.MasterlistModels}, routeTo(NodeSuggestions)},
		{&SuggestionsNode{Models: cfg.SuggestionModels}, nil},
	}
	for _, registration := range registrations {
		if err := graph.AddNode(registration.node, registration.route); err != nil {
			return nil, err
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return &Workflow{graph: graph}, nil
}

// routeTo returns a constant routing function.
func routeTo(targets ...NodeID) RouteFunc {
	return func(State) []NodeID { return targets }
}

// routeAfterQueryGeneration sends tool-invoking rounds to the search node
// and zero-tool-call rounds straight to the router, which will loop back.
func routeAfterQueryGeneration(state State) []NodeID {
	if len(state.GeneratedSearchQueries) > 0 && lastMessageHasToolCalls(state.Messages) {
		return []NodeID{NodeWebSearch}
	}
	return []NodeID{NodeRouter}
}

func lastMessageHasToolCalls(messages []ai.Message) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Role == ai.RoleAssistant && len(last.ToolCalls) > 0
}

// routeAfterRouter maps the router's decision directly to a node; no
// additional logic lives in the edge.
func routeAfterRouter(state State) []NodeID {
	if state.RouteDecision == RouteCompetitorAnalysis {
		return []NodeID{NodeCompetitorAnalysis}
	}
	return []NodeID{NodeQueryGenerator}
}

// Run executes the workflow for one article. Progress events are delivered
// to emit in emission order; a successful run ends with a complete event.
// The returned state is the final workflow state.
func (workflow *Workflow) Run(ctx context.Context, userArticle string, emit EmitFunc) (State, error) {
	if userArticle == "" {
		return State{}, fmt.Errorf("user article is empty")
	}

	runID := uuid.NewString()
	obs := observability.FromContext(ctx)
	runCtx, span := obs.StartSpan(ctx, "workflow.run",
		observability.String(observability.AttrWorkflowRunID, runID),
	)
	defer span.End()

	obs.Info(runCtx, "workflow run started",
		observability.String(observability.AttrWorkflowRunID, runID),
		observability.Int("article_length", len(userArticle)),
	)

	finalState, err := workflow.graph.Run(runCtx, State{UserInput: userArticle}, emit)
	if err != nil {
		span.RecordError(err)
		obs.Error(runCtx, "workflow run failed",
			observability.String(observability.AttrWorkflowRunID, runID),
			observability.Error(err),
		)
		return finalState, err
	}

	if emit != nil {
		emit(NewCompleteEvent())
	}
	obs.Info(runCtx, "workflow run completed",
		observability.String(observability.AttrWorkflowRunID, runID),
	)
	return finalState, nil
}

// RunStream executes the workflow and exposes the event stream as a
// sequence. Events are yielded with a nil error; a fatal run error is
// yielded once, after its error event, as the final element. Stopping
// iteration early cancels the run.
func (workflow *Workflow) RunStream(ctx context.Context, userArticle string) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan Event, 16)
		done := make(chan error, 1)

		go func() {
			_, err := workflow.Run(runCtx, userArticle, func(event Event) {
				select {
				case events <- event:
				case <-runCtx.Done():
				}
			})
			close(events)
			done <- err
		}()

		for event := range events {
			if !yield(event, nil) {
				cancel()
				for range events {
					// Drain so the run goroutine can finish.
				}
				<-done
				return
			}
		}

		if err := <-done; err != nil {
			yield(Event{}, err)
		}
	}
}
