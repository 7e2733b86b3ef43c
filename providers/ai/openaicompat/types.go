package openaicompat

import (
	"github.com/newsroom-tools/keywordagent/internal/jsonschema"
	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// --- WIRE FORMAT (chat completions dialect) ---

type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []wireMessage       `json:"messages"`
	Tools          []wireTool          `json:"tools,omitempty"`
	ToolChoice     any                 `json:"tool_choice,omitempty"`
	ResponseFormat *wireResponseFormat `json:"response_format,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    *float32            `json:"temperature,omitempty"`
	TopP           *float32            `json:"top_p,omitempty"`
}

type wireMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	ToolCalls  []ai.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
}

type wireTool struct {
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type wireToolChoice struct {
	Type     string             `json:"type"`
	Function wireToolChoiceName `json:"function"`
}

type wireToolChoiceName struct {
	Name string `json:"name"`
}

type wireResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *wireJSONSchema `json:"json_schema,omitempty"`
}

type wireJSONSchema struct {
	Name   string             `json:"name"`
	Schema *jsonschema.Schema `json:"schema"`
	Strict bool               `json:"strict,omitempty"`
}

type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Model   string       `json:"model"`
	Created int64        `json:"created"`
	Choices []wireChoice `json:"choices"`
	Usage   *ai.Usage    `json:"usage,omitempty"`
}

type wireChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// --- MAPPING ---

// requestToWire converts the generic request into the chat-completions wire
// format. The system prompt becomes the leading message.
func requestToWire(request ai.ChatRequest) chatCompletionRequest {
	wireRequest := chatCompletionRequest{
		Model:    request.Model,
		Messages: make([]wireMessage, 0, len(request.Messages)+1),
	}

	if request.SystemPrompt != "" {
		wireRequest.Messages = append(wireRequest.Messages, wireMessage{
			Role:    string(ai.RoleSystem),
			Content: request.SystemPrompt,
		})
	}

	for _, message := range request.Messages {
		wireRequest.Messages = append(wireRequest.Messages, wireMessage{
			Role:       string(message.Role),
			Content:    message.Content,
			ToolCalls:  message.ToolCalls,
			ToolCallID: message.ToolCallID,
			Name:       message.Name,
		})
	}

	for _, tool := range request.Tools {
		wireRequest.Tools = append(wireRequest.Tools, wireTool{
			Type: "function",
			Function: wireToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	if request.ToolChoiceForced != "" {
		wireRequest.ToolChoice = wireToolChoice{
			Type:     "function",
			Function: wireToolChoiceName{Name: request.ToolChoiceForced},
		}
	}

	if request.ResponseFormat != nil && request.ResponseFormat.OutputSchema != nil {
		schemaName := request.ResponseFormat.SchemaName
		if schemaName == "" {
			schemaName = "response"
		}
		wireRequest.ResponseFormat = &wireResponseFormat{
			Type: "json_schema",
			JSONSchema: &wireJSONSchema{
				Name:   schemaName,
				Schema: request.ResponseFormat.OutputSchema,
				Strict: request.ResponseFormat.Strict,
			},
		}
	}

	if generationConfig := request.GenerationConfig; generationConfig != nil {
		wireRequest.MaxTokens = generationConfig.MaxTokens
		if generationConfig.Temperature != 0 {
			temperature := generationConfig.Temperature
			wireRequest.Temperature = &temperature
		}
		if generationConfig.TopP != 0 {
			topP := generationConfig.TopP
			wireRequest.TopP = &topP
		}
	}

	return wireRequest
}

// responseFromWire converts the first choice of a wire response into the
// generic response envelope.
func responseFromWire(wireResponse chatCompletionResponse) *ai.ChatResponse {
	chosen := wireResponse.Choices[0]
	return &ai.ChatResponse{
		Id:           wireResponse.Id,
		Model:        wireResponse.Model,
		Created:      wireResponse.Created,
		Content:      chosen.Message.Content,
		ToolCalls:    chosen.Message.ToolCalls,
		FinishReason: chosen.FinishReason,
		Usage:        wireResponse.Usage,
	}
}
