// Package api exposes the workflow over HTTP: a server-sent-event stream for
// the keyword agent, the full-article suggestion endpoint, and a liveness
// probe.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newsroom-tools/keywordagent/agent"
	"github.com/newsroom-tools/keywordagent/providers/observability"
)

// WorkflowRunner runs one keyword research workflow, delivering progress
// events to emit and returning the final state.
type WorkflowRunner interface {
	Run(ctx context.Context, userArticle string, emit agent.EmitFunc) (agent.State, error)
}

// ArticleGenerator produces the fully revised article from the latest
// archived run.
type ArticleGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Server is the HTTP surface of the agent.
type Server struct {
	engine   *gin.Engine
	workflow WorkflowRunner
	articles ArticleGenerator
	archive  *agent.Archive
	obs      observability.Provider
}

// NewServer assembles the gin engine and its routes. The archive is owned
// here: successful runs are recorded so the full-article endpoint can pick
// them up later.
func NewServer(workflow WorkflowRunner, articles ArticleGenerator, archive *agent.Archive, obs observability.Provider) *Server {
	if obs == nil {
		obs = observability.Noop()
	}

	server := &Server{
		engine:   gin.New(),
		workflow: workflow,
		articles: articles,
		archive:  archive,
		obs:      obs,
	}

	server.engine.Use(gin.Recovery())
	server.engine.GET("/", server.handleHealth)
	server.engine.POST("/agent/keyword/stream", server.handleKeywordStream)
	server.engine.POST("/agent/suggestfullarticle", server.handleSuggestFullArticle)

	return server
}

// Handler exposes the engine for tests and custom http.Server setups.
func (server *Server) Handler() http.Handler { return server.engine }

// Run starts the server on the given address.
func (server *Server) Run(addr string) error { return server.engine.Run(addr) }

func (server *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "keyword-agent"})
}

// keywordStreamRequest is the body of POST /agent/keyword/stream.
type keywordStreamRequest struct {
	UserArticle string `json:"user_article" binding:"required"`
}

func (server *Server) handleKeywordStream(c *gin.Context) {
	var request keywordStreamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_article is required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// Disable proxy buffering so frames reach the client as they are emitted.
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := observability.WithProvider(c.Request.Context(), server.obs)

	emit := func(event agent.Event) {
		if err := event.WriteSSE(c.Writer); err != nil {
			server.obs.Warn(ctx, "failed to write event frame", observability.Error(err))
			return
		}
		c.Writer.Flush()
	}

	finalState, err := server.workflow.Run(ctx, request.UserArticle, emit)
	if err != nil {
		// The run already emitted its error event; the stream simply closes
		// without a complete frame.
		return
	}

	if server.archive != nil {
		server.archive.Store(agent.ArchivedRun{
			RunID:       uuid.NewString(),
			UserArticle: request.UserArticle,
			Suggestions: finalState.FinalAnswer,
			CompletedAt: time.Now(),
		})
	}
}

// fullArticleResponse is the body of POST /agent/suggestfullarticle.
type fullArticleResponse struct {
	Success           bool   `json:"success"`
	ArticleSuggestion string `json:"article_suggestion"`
	Message           string `json:"message"`
}

func (server *Server) handleSuggestFullArticle(c *gin.Context) {
	ctx := observability.WithProvider(c.Request.Context(), server.obs)

	article, err := server.articles.Generate(ctx)
	if err != nil {
		c.JSON(http.StatusOK, fullArticleResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, fullArticleResponse{
		Success:           true,
		ArticleSuggestion: article,
		Message:           "Full article suggestion generated",
	})
}
