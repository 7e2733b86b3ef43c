package agent

import (
	"context"
	"fmt"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// EntityExtractorNode extracts the 1-3 entity phrases that seed the research
// loop. A model failure here is fatal: every downstream node depends on the
// entities and there is no degraded fallback.
type EntityExtractorNode struct {
	Models *model.Facade
}

var _ Node = (*EntityExtractorNode)(nil)

func (node *EntityExtractorNode) ID() NodeID { return NodeEntityExtractor }

func (node *EntityExtractorNode) Run(ctx context.Context, state State, emit EmitFunc) (Patch, error) {
	emit(NewInternalEvent(node.ID(), "Reading the article and extracting its main entities..."))

	extraction, err := model.InvokeStructured[EntityExtraction](ctx, node.Models, ai.ChatRequest{
		SystemPrompt: entityExtractorPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: state.UserInput},
		},
	})
	if err != nil {
		return Patch{}, fmt.Errorf("entity extraction: %w", err)
	}

	entities := make([]string, 0, len(extraction.Entities))
	for _, entity := range extraction.Entities {
		if entity != "" {
			entities = append(entities, entity)
		}
	}
	if len(entities) == 0 {
		return Patch{}, fmt.Errorf("entity extraction returned no entities")
	}

	emit(NewInternalContentEvent(node.ID(), map[string]any{"entities": entities}))

	return Patch{RetrievedEntities: &entities}, nil
}
