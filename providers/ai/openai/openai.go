// Package openai implements the ai.Provider interface for the OpenAI chat
// completions API.
package openai

import (
	"context"
	"net/http"
	"os"

	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/ai/openaicompat"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIProvider implements the Provider interface for the OpenAI API.
type OpenAIProvider struct {
	client openaicompat.Client
}

// Compile-time check that OpenAIProvider implements ai.Provider.
var _ ai.Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI provider. The API key is read from
// OPENAI_API_KEY and the base URL from OPENAI_BASE_URL when set.
func NewOpenAIProvider() *OpenAIProvider {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		client: openaicompat.Client{
			VendorName: "openai",
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    baseURL,
			HTTPClient: &http.Client{},
		},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.client.APIKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.client.BaseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client.HTTPClient = httpClient
	return p
}

// SendMessage implements the Provider interface.
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.client.SendMessage(ctx, request)
}

// IsStopMessage reports whether the given chat response should be treated as a stop signal.
func (p *OpenAIProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return p.client.IsStopMessage(message)
}
