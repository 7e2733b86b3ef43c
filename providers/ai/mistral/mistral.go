// Package mistral implements the ai.Provider interface for the Mistral AI
// platform, which exposes an OpenAI-compatible chat completions API.
package mistral

import (
	"context"
	"net/http"
	"os"

	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/ai/openaicompat"
)

const defaultBaseURL = "https://api.mistral.ai/v1"

// MistralProvider implements the Provider interface for the Mistral API.
type MistralProvider struct {
	client openaicompat.Client
}

// Compile-time check that MistralProvider implements ai.Provider.
var _ ai.Provider = (*MistralProvider)(nil)

// NewMistralProvider creates a new Mistral provider. The API key is read from
// MISTRAL_API_KEY and the base URL from MISTRAL_BASE_URL when set.
func NewMistralProvider() *MistralProvider {
	baseURL := os.Getenv("MISTRAL_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &MistralProvider{
		client: openaicompat.Client{
			VendorName: "mistral",
			APIKey:     os.Getenv("MISTRAL_API_KEY"),
			BaseURL:    baseURL,
			HTTPClient: &http.Client{},
		},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *MistralProvider) WithAPIKey(apiKey string) ai.Provider {
	p.client.APIKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *MistralProvider) WithBaseURL(baseURL string) ai.Provider {
	p.client.BaseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *MistralProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client.HTTPClient = httpClient
	return p
}

// SendMessage implements the Provider interface.
func (p *MistralProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return p.client.SendMessage(ctx, request)
}

// IsStopMessage reports whether the given chat response should be treated as a stop signal.
func (p *MistralProvider) IsStopMessage(message *ai.ChatResponse) bool {
	return p.client.IsStopMessage(message)
}
