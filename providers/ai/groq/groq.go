// Package groq implements the ai.Provider interface for Groq's
// OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"net/http"
	"os"

	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/ai/openaicompat"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider implements the Provider interface for the Groq API.
type GroqProvider struct {
	client openaicompat.Client
}

// Compile-time check that GroqProvider implements ai.Provider.
var _ ai.Provider = (*GroqProvider)(nil)

// NewGroqProvider creates a new Groq provider. The API key is read from
// GROQ_API_KEY and the base URL from GROQ_BASE_URL when set.
func NewGroqProvider() *GroqProvider {
	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GroqProvider{
		client: openaicompat.Client{
			VendorName: "groq",
			APIKey:     os.Getenv("GROQ_API_KEY"),
			BaseURL:    baseURL,
			HTTPClient: &http.Client{},
		},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *GroqProvider) WithAPIKey(apiKey string) ai.Provider {
	p.client.APIKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GroqProvider) WithBaseURL(baseURL string) ai.Provider {
	p.client.BaseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GroqProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client.HTTPClient = httpClient
	return p
}

// SendMessage implements the Provider interface.
func (p *GroqProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.client.SendMessage(ctx, request)
}

// IsStopMessage reports whether the given chat response should be treated as a stop signal.
func (p *GroqProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return p.client.IsStopMessage(message)
}
