// Package openaicompat implements the chat-completions wire dialect shared by
// OpenAI-compatible APIs. The vendor packages (openai, mistral, groq) wrap a
// Client with their own defaults; this package owns request encoding, response
// decoding and stop-message semantics.
package openaicompat

import (
	"context"
	"fmt"
	"net/http"

	"github.com/newsroom-tools/keywordagent/internal/utils"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

const chatCompletionsEndpoint = "/chat/completions"

// Client talks to one OpenAI-compatible chat-completions API.
type Client struct {
	// VendorName identifies the vendor in error messages ("openai", "mistral", "groq").
	VendorName string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// SendMessage encodes the request into the chat-completions wire format,
// posts it, and decodes the first choice of the response.
func (client *Client) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if client.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is not set", client.VendorName)
	}

	headers := map[string]string{"Authorization": "Bearer " + client.APIKey}

	httpResponse, wireResponse, err := utils.DoPostSync[chatCompletionResponse](ctx, client.HTTPClient, client.BaseURL+chatCompletionsEndpoint, headers, requestToWire(request))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", client.VendorName, err)
	}

	if wireResponse == nil {
		return nil, fmt.Errorf("%s: empty response: %s", client.VendorName, httpResponse.Status)
	}
	if len(wireResponse.Choices) == 0 {
		return nil, fmt.Errorf("%s: no choices in response", client.VendorName)
	}

	return responseFromWire(*wireResponse), nil
}

// IsStopMessage reports whether the response is a terminal completion under
// chat-completions finish-reason semantics.
func (client *Client) IsStopMessage(message *ai.ChatResponse) bool {
	if message == nil {
		return true
	}
	// Prefer the explicit finish reason from the API.
	switch message.FinishReason {
	case "stop", "length", "content_filter":
		return true
	case "tool_calls":
		return false
	}
	// No content and no tool calls means there is nothing left to do.
	return message.Content == "" && len(message.ToolCalls) == 0
}
