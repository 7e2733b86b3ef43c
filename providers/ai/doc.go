// Package ai defines the provider-agnostic types for talking to chat model
// APIs: the Provider interface, the request/response envelopes, and the tool
// calling structures shared by every implementation.
//
// Concrete providers live in subpackages (openai, mistral, groq). They all
// speak the chat-completions wire dialect and share a codec in openaicompat.
package ai
