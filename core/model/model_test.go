package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/newsroom-tools/keywordagent/providers/ai"
)

// scriptedProvider answers every SendMessage with a fixed response or error.
type scriptedProvider struct {
	response *ai.ChatResponse
	err      error
	calls    int
}

var _ ai.Provider = (*scriptedProvider)(nil)

func (p *scriptedProvider) SendMessage(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	p.calls++
	return p.response, p.err
}

func (p *scriptedProvider) IsStopMessage(*ai.ChatResponse) bool     { return true }
func (p *scriptedProvider) WithAPIKey(string) ai.Provider           { return p }
func (p *scriptedProvider) WithBaseURL(string) ai.Provider          { return p }
func (p *scriptedProvider) WithHttpClient(*http.Client) ai.Provider { return p }

func TestNewFacadeRequiresReferences(t *testing.T) {
	if _, err := NewFacade(); err == nil {
		t.Error("expected an error for an empty chain")
	}
	if _, err := NewFacade(Ref{Name: "no-provider"}); err == nil {
		t.Error("expected an error for a nil provider")
	}
}

func TestInvokeStopsAtFirstSuccess(t *testing.T) {
	failing := &scriptedProvider{err: errors.New("rate limited")}
	succeeding := &scriptedProvider{response: &ai.ChatResponse{Content: "ok", FinishReason: "stop"}}
	unreached := &scriptedProvider{response: &ai.ChatResponse{Content: "never"}}

	facade, err := NewFacade(
		Ref{Name: "primary", Provider: failing},
		Ref{Name: "secondary", Provider: succeeding},
		Ref{Name: "tertiary", Provider: unreached},
	)
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	response, err := facade.Invoke(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if response.Content != "ok" {
		t.Errorf("Content = %q, want the second reference's answer", response.Content)
	}
	if failing.calls != 1 || succeeding.calls != 1 || unreached.calls != 0 {
		t.Errorf("calls = [%d %d %d], want [1 1 0]", failing.calls, succeeding.calls, unreached.calls)
	}
}

func TestInvokeExhaustedErrorKeepsAttemptOrder(t *testing.T) {
	firstErr := errors.New("first down")
	secondErr := errors.New("second down")

	facade, err := NewFacade(
		Ref{Name: "alpha", Provider: &scriptedProvider{err: firstErr}},
		Ref{Name: "beta", Provider: &scriptedProvider{err: secondErr}},
	)
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	_, err = facade.Invoke(context.Background(), ai.ChatRequest{})
	if err == nil {
		t.Fatal("expected an exhausted chain to error")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %T, want *ExhaustedError", err)
	}
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("attempts = %v, want both failures recorded", exhausted.Attempts)
	}
	if exhausted.Attempts[0].Model != "alpha" || exhausted.Attempts[1].Model != "beta" {
		t.Errorf("attempt order = [%s %s], want chain order", exhausted.Attempts[0].Model, exhausted.Attempts[1].Model)
	}
	if !errors.Is(err, firstErr) || !errors.Is(err, secondErr) {
		t.Error("Unwrap must expose every attempt error to errors.Is")
	}
}

func TestInvokeOverwritesModelPerAttempt(t *testing.T) {
	var seenModels []string
	recorder := providerFunc(func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		seenModels = append(seenModels, request.Model)
		return nil, errors.New("forced fallback")
	})

	facade, err := NewFacade(
		Ref{Name: "first-model", Provider: recorder},
		Ref{Name: "second-model", Provider: recorder},
	)
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	_, _ = facade.Invoke(context.Background(), ai.ChatRequest{Model: "caller-supplied"})

	if len(seenModels) != 2 || seenModels[0] != "first-model" || seenModels[1] != "second-model" {
		t.Errorf("seen models = %v, want each reference's own name", seenModels)
	}
}

func TestInvokeForToolFailsAttemptWithoutToolCalls(t *testing.T) {
	chatty := &scriptedProvider{response: &ai.ChatResponse{Content: "just prose", FinishReason: "stop"}}
	compliant := &scriptedProvider{response: &ai.ChatResponse{
		ToolCalls:    []ai.ToolCall{{ID: "call_1", Type: "function", Function: ai.ToolCallFunction{Name: "web_search", Arguments: `{"query":"q"}`}}},
		FinishReason: "tool_calls",
	}}

	facade, err := NewFacade(
		Ref{Name: "chatty", Provider: chatty},
		Ref{Name: "compliant", Provider: compliant},
	)
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	response, err := facade.InvokeForTool(context.Background(), ai.ChatRequest{}, "web_search")
	if err != nil {
		t.Fatalf("InvokeForTool returned error: %v", err)
	}
	if len(response.ToolCalls) != 1 {
		t.Errorf("ToolCalls = %v, want the compliant reference's call", response.ToolCalls)
	}
	if chatty.calls != 1 {
		t.Error("the tool-less response must count as a failed attempt")
	}
}

func TestInvokeRespectsCancelledContext(t *testing.T) {
	provider := &scriptedProvider{response: &ai.ChatResponse{Content: "ok"}}
	facade, err := NewFacade(Ref{Name: "only", Provider: provider})
	if err != nil {
		t.Fatalf("NewFacade failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = facade.Invoke(ctx, ai.ChatRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled surfaced through the chain", err)
	}
	if provider.calls != 0 {
		t.Error("no provider may be called after cancellation")
	}
}

// providerFunc adapts a function to ai.Provider for request inspection.
type providerFunc func(request ai.ChatRequest) (*ai.ChatResponse, error)

var _ ai.Provider = (providerFunc)(nil)

func (f providerFunc) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return f(request)
}

func (f providerFunc) IsStopMessage(*ai.ChatResponse) bool     { return true }
func (f providerFunc) WithAPIKey(string) ai.Provider           { return f }
func (f providerFunc) WithBaseURL(string) ai.Provider          { return f }
func (f providerFunc) WithHttpClient(*http.Client) ai.Provider { return f }

func TestExhaustedErrorMessageNamesEveryModel(t *testing.T) {
	err := &ExhaustedError{Attempts: []Attempt{
		{Model: "gpt-4o-mini", Err: fmt.Errorf("timeout")},
		{Model: "mistral-large-latest", Err: fmt.Errorf("bad gateway")},
	}}
	message := err.Error()
	for _, fragment := range []string{"all 2 model invocations failed", "gpt-4o-mini: timeout", "mistral-large-latest: bad gateway"} {
		if !strings.Contains(message, fragment) {
			t.Errorf("message %q missing %q", message, fragment)
		}
	}
}
