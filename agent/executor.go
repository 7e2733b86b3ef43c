package agent

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/newsroom-tools/keywordagent/providers/observability"
)

// NodeID identifies a node in the workflow graph. The set is closed: routing
// functions may only return identifiers registered on the graph, which is
// checked when the graph is built and again at each routing step.
type NodeID string

const (
	NodeEntityExtractor    NodeID = "entity_extractor"
	NodeQueryGenerator     NodeID = "query_generator"
	NodeWebSearch          NodeID = "web_search"
	NodeRouter             NodeID = "router_and_state_updater"
	NodeCompetitorAnalysis NodeID = "competitor_analysis"
	NodeKeywordPlannerA    NodeID = "keyword_planner_branch_a"
	NodeKeywordPlannerB    NodeID = "keyword_planner_branch_b"
	NodeKeywordSynthesizer NodeID = "keyword_synthesizer"
	NodeMasterlist         NodeID = "masterlist_generator"
	NodeSuggestions        NodeID = "suggestions"
)

// Node is one unit of work in the graph. Run receives a state snapshot and an
// emit function for progress events, and returns a partial-state patch. A
// returned error is fatal for the run; nodes that can degrade gracefully must
// handle their own failures and return a benign patch instead.
type Node interface {
	ID() NodeID
	Run(ctx context.Context, state State, emit EmitFunc) (Patch, error)
}

// RouteFunc selects the next node(s) given the state after a node's patch has
// been applied. Returning more than one identifier declares a fan-out
// superstep; returning nil ends the run.
type RouteFunc func(State) []NodeID

// DefaultMaxSupersteps bounds the number of graph rounds per run. The search
// refinement loop is bounded by the tool call counter, but that counter only
// advances on successful tool-invoking rounds; a model that persistently
// returns zero tool calls would otherwise loop forever.
const DefaultMaxSupersteps = 25

// Graph is an executable workflow: a closed set of nodes, a routing function
// per node, and an entry point.
type Graph struct {
	entry         NodeID
	nodes         map[NodeID]Node
	routes        map[NodeID]RouteFunc
	maxSupersteps int
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithMaxSupersteps overrides the superstep ceiling.
func WithMaxSupersteps(limit int) GraphOption {
	return func(graph *Graph) {
		if limit > 0 {
			graph.maxSupersteps = limit
		}
	}
}

// NewGraph creates an empty graph with the given entry node.
func NewGraph(entry NodeID, opts ...GraphOption) *Graph {
	graph := &Graph{
		entry:         entry,
		nodes:         make(map[NodeID]Node),
		routes:        make(map[NodeID]RouteFunc),
		maxSupersteps: DefaultMaxSupersteps,
	}
	for _, opt := range opts {
		opt(graph)
	}
	return graph
}

// AddNode registers a node and its routing function. A nil route marks the
// node as terminal. Registering the same identifier twice is an error.
func (graph *Graph) AddNode(node Node, route RouteFunc) error {
	if node == nil {
		return fmt.Errorf("cannot add nil node")
	}
	id := node.ID()
	if id == "" {
		return fmt.Errorf("node has empty identifier")
	}
	if _, exists := graph.nodes[id]; exists {
		return fmt.Errorf("node %q already registered", id)
	}
	graph.nodes[id] = node
	graph.routes[id] = route
	return nil
}

// Validate checks that the entry node exists. Route targets are checked at
// runtime because routes are arbitrary functions of state.
func (graph *Graph) Validate() error {
	if len(graph.nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	if _, exists := graph.nodes[graph.entry]; !exists {
		return fmt.Errorf("entry node %q is not registered", graph.entry)
	}
	return nil
}

// Run executes the graph from its entry node until a terminal node completes
// or a node fails. Progress events are delivered to emit in emission order,
// serialized across concurrent branches. The returned state is the final
// state after the last applied patch.
//
// Fan-out supersteps run their branches concurrently on the same snapshot;
// branch patches are applied in declared branch order, so when two branches
// write the same overwrite-policy field, the later branch in the routing
// function's returned slice wins.
func (graph *Graph) Run(ctx context.Context, initial State, emit EmitFunc) (State, error) {
	if err := graph.Validate(); err != nil {
		return initial, err
	}

	obs := observability.FromContext(ctx)
	serialized := newEmitter(emit)
	state := initial
	current := []NodeID{graph.entry}

	for superstep := 0; len(current) > 0; superstep++ {
		if superstep >= graph.maxSupersteps {
			return state, fmt.Errorf("superstep ceiling reached (%d) without reaching a terminal node", graph.maxSupersteps)
		}
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("workflow cancelled: %w", err)
		}

		patches, err := graph.runSuperstep(ctx, obs, state, current, serialized)
		if err != nil {
			return state, err
		}

		// Branch patches apply in declared order; the merged state feeds
		// every routing decision of this superstep.
		for _, patch := range patches {
			state = Apply(state, patch)
		}

		next, err := graph.routeNext(state, current)
		if err != nil {
			return state, err
		}
		current = next
	}

	return state, nil
}

// runSuperstep executes the given node set against one snapshot. A single
// node runs inline; multiple nodes run concurrently and are joined before
// returning. Patches come back in declared node order regardless of
// completion order.
func (graph *Graph) runSuperstep(ctx context.Context, obs observability.Provider, state State, ids []NodeID, serialized *emitter) ([]Patch, error) {
	if len(ids) == 1 {
		patch, err := graph.runNode(ctx, obs, state, ids[0], serialized)
		if err != nil {
			return nil, err
		}
		return []Patch{patch}, nil
	}

	patches := make([]Patch, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for index, id := range ids {
		wg.Add(1)
		go func(index int, id NodeID) {
			defer wg.Done()
			patches[index], errs[index] = graph.runNode(ctx, obs, state, id, serialized)
		}(index, id)
	}
	wg.Wait()

	for index, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("branch %q failed: %w", ids[index], err)
		}
	}
	return patches, nil
}

// runNode executes one node against its own deep-copied snapshot.
func (graph *Graph) runNode(ctx context.Context, obs observability.Provider, state State, id NodeID, serialized *emitter) (Patch, error) {
	node, exists := graph.nodes[id]
	if !exists {
		return Patch{}, fmt.Errorf("routing selected unknown node %q", id)
	}

	spanCtx, span := obs.StartSpan(ctx, "workflow.node",
		observability.String(observability.AttrWorkflowNode, string(id)),
	)
	defer span.End()

	patch, err := node.Run(spanCtx, state.Clone(), serialized.Emit)
	if err != nil {
		span.RecordError(err)
		serialized.Emit(NewErrorEvent(id, err.Error()))
		return Patch{}, fmt.Errorf("node %q failed: %w", id, err)
	}
	return patch, nil
}

// routeNext evaluates the routing functions of the nodes that just ran
// against the merged state, returning the deduplicated union of their
// targets in first-seen order. An empty union ends the run.
func (graph *Graph) routeNext(state State, ran []NodeID) ([]NodeID, error) {
	var next []NodeID
	seen := make(map[NodeID]bool)

	for _, id := range ran {
		route := graph.routes[id]
		if route == nil {
			continue
		}
		for _, target := range route(state) {
			if _, exists := graph.nodes[target]; !exists {
				return nil, fmt.Errorf("route from %q selected unknown node %q", id, target)
			}
			if !seen[target] {
				seen[target] = true
				next = append(next, target)
			}
		}
	}
	return next, nil
}

// RunStream executes the graph and exposes the event stream as a sequence.
// Events are yielded with a nil error; a fatal run error is yielded once,
// after its error event, as the final element. Stopping iteration early
// cancels the run.
func (graph *Graph) RunStream(ctx context.Context, initial State) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan Event, 16)
		done := make(chan error, 1)

		go func() {
			_, err := graph.Run(runCtx, initial, func(event Event) {
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
