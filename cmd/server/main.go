// Command server runs the keyword research agent's HTTP API.
package main

import (
	"log/slog"
	"os"

	"github.com/newsroom-tools/keywordagent/agent"
	"github.com/newsroom-tools/keywordagent/api"
	"github.com/newsroom-tools/keywordagent/config"
	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai/groq"
	"github.com/newsroom-tools/keywordagent/providers/ai/mistral"
	"github.com/newsroom-tools/keywordagent/providers/ai/openai"
	"github.com/newsroom-tools/keywordagent/providers/keywords"
	"github.com/newsroom-tools/keywordagent/providers/observability/slogobs"
	"github.com/newsroom-tools/keywordagent/providers/search"
)

func main() {
	settings := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: settings.LogLevel}))
	slog.SetDefault(logger)
	obs := slogobs.New(logger)

	openaiProvider := openai.NewOpenAIProvider()
	mistralProvider := mistral.NewMistralProvider()
	groqProvider := groq.NewGroqProvider()

	// Per-node fallback chains. The cheap, fast models front the high-volume
	// loop nodes; the analysis-grade chain serves the synthesis-heavy nodes.
	entityModels := mustFacade(
		model.Ref{Name: "gpt-4o-mini", Provider: openaiProvider},
		model.Ref{Name: "mistral-large-latest", Provider: mistralProvider},
	)
	queryModels := mustFacade(
		model.Ref{Name: "mistral-large-latest", Provider: mistralProvider},
		model.Ref{Name: "gpt-4o-mini", Provider: openaiProvider},
		model.Ref{Name: "gpt-4o", Provider: openaiProvider},
	)
	routerModels := mustFacade(
		model.Ref{Name: "mistral-small-latest", Provider: mistralProvider},
		model.Ref{Name: "gpt-4o-mini", Provider: openaiProvider},
		model.Ref{Name: "llama-3.3-70b-versatile", Provider: groqProvider},
	)
	analysisModels := mustFacade(
		model.Ref{Name: "gpt-4o", Provider: openaiProvider},
		model.Ref{Name: "mistral-large-latest", Provider: mistralProvider},
		model.Ref{Name: "llama-3.3-70b-versatile", Provider: groqProvider},
	)

	workflow, err := agent.NewWorkflow(agent.Config{
		EntityModels:     entityModels,
		QueryModels:      queryModels,
		RouterModels:     routerModels,
		AnalysisModels:   analysisModels,
		MasterlistModels: analysisModels,
		SuggestionModels: analysisModels,
		Search:           search.NewClient(),
		Planner:          keywords.NewClient(),
	})
	if err != nil {
		slog.Error("failed to assemble workflow", "error", err)
		os.Exit(1)
	}

	archive := agent.NewArchive()
	articles := &agent.FullArticleGenerator{
		Models:  analysisModels,
		Archive: archive,
	}

	server := api.NewServer(workflow, articles, archive, obs)

	slog.Info("keyword agent listening", "port", settings.Port)
	if err := server.Run(":" + settings.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func mustFacade(refs ...model.Ref) *model.Facade {
	facade, err := model.NewFacade(refs...)
	if err != nil {
		slog.Error("failed to build model facade", "error", err)
		os.Exit(1)
	}
	return facade
}
