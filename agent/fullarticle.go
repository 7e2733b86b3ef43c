package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/newsroom-tools/keywordagent/core/model"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// ArchivedRun retains what the full-article feature needs from a completed
// workflow run: the original draft and the accepted sentence revisions.
type ArchivedRun struct {
	RunID       string
	UserArticle string
	Suggestions string
	CompletedAt time.Time
}

// Archive holds the most recent completed run per server. It replaces the
// module-level globals of earlier iterations of this feature: the archive is
// an explicit dependency owned by the API server, so concurrent requests
// cannot corrupt each other through process-wide state.
type Archive struct {
	mu     sync.RWMutex
	latest *ArchivedRun
}

// NewArchive creates an empty archive.
func NewArchive() *Archive { return &Archive{} }

// Store records a completed run, replacing any previous one.
func (archive *Archive) Store(run ArchivedRun) {
	archive.mu.Lock()
	defer archive.mu.Unlock()
	stored := run
	archive.latest = &stored
}

// Latest returns the most recent completed run, or false when none exists.
func (archive *Archive) Latest() (ArchivedRun, bool) {
	archive.mu.RLock()
	defer archive.mu.RUnlock()
	if archive.latest == nil {
		return ArchivedRun{}, false
	}
	return *archive.latest, true
}

// FullArticleGenerator rewrites the archived draft with its accepted keyword
// revisions applied in place.
type FullArticleGenerator struct {
	Models  *model.Facade
	Archive *Archive
}

// Generate produces the revised article from the most recent archived run.
// Returns an error when no run has completed yet.
func (generator *FullArticleGenerator) Generate(ctx context.Context) (string, error) {
	run, exists := generator.Archive.Latest()
	if !exists {
		return "", fmt.Errorf("no completed keyword run available; run the keyword agent first")
	}

	result, err := model.InvokeStructured[fullArticleResult](ctx, generator.Models, ai.ChatRequest{
		SystemPrompt: fullArticlePrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf("Draft article:\n%s\n\nApproved revisions:\n%s", run.UserArticle, run.Suggestions)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("full article generation: %w", err)
	}
	if result.RevisedArticle == "" {
		return "", fmt.Errorf("full article generation returned an empty article")
	}
	return result.RevisedArticle, nil
}
