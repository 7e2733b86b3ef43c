package ai

import "github.com/newsroom-tools/keywordagent/internal/jsonschema"

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a single request to a model provider.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`              // Model name or identifier
	Messages         []Message         `json:"messages"`                     // All conversation messages except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`      // Optional system prompt
	Tools            []ToolDescription `json:"tools,omitempty"`              // Tool definitions, if any
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`    // Optional structured-output format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"`  // Optional sampling configuration
	ToolChoiceForced string            `json:"tool_choice_forced,omitempty"` // Name of a tool the model MUST call
}

// ToolDescription declares a tool the model may (or must) call.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being answered
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that produced this result
}

// GenerationConfig carries optional sampling parameters.
type GenerationConfig struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]; lower is more deterministic
	TopP        float32 `json:"top_p,omitempty"`       // Nucleus sampling [0..1], alternative to temperature
}

// ResponseFormat requests structured output from the model.
type ResponseFormat struct {
	OutputSchema *jsonschema.Schema `json:"output_schema,omitempty"` // Schema the response must conform to; encoding varies by provider
	SchemaName   string             `json:"schema_name,omitempty"`   // Name for the schema, required by some providers
	Strict       bool               `json:"strict,omitempty"`        // If true, the model must strictly adhere to the schema when supported
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token consumption for a single request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the completed response from a provider.
type ChatResponse struct {
	Id           string     `json:"id"`
	Model        string     `json:"model"`
	Created      int64      `json:"created"`
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason,omitempty"`
	Usage        *Usage     `json:"usage,omitempty"`
}

// AssistantMessage converts the response into a conversation message suitable
// for appending to the message history.
func (response *ChatResponse) AssistantMessage() Message {
	return Message{
		Role:      RoleAssistant,
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
	}
}

/*
	##### TOOL CALLS #####
*/

// ToolCall represents a function/tool call requested by the model.
type ToolCall struct {
	ID       string           `json:"id,omitempty"` // Unique identifier for this tool call
	Type     string           `json:"type"`         // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction is the function name and raw JSON arguments of a tool call.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
	RoleTool      MessageRole = "tool"      // Tool/function output
)
