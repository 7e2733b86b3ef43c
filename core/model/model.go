// Package model provides the invocation facade the workflow nodes talk to.
// A Facade owns an ordered chain of (provider, model) references; Invoke tries
// them in declared order and returns the first success. Only when every
// reference fails does the caller see an error, an *ExhaustedError carrying
// the per-attempt failures in order.
//
// Structured output and forced tool calls are layered on the same chain:
// a response that cannot be parsed into the requested type, or that carries
// no tool call when one was required, counts as a failed attempt and falls
// through to the next reference.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsroom-tools/keywordagent/providers/ai"
	"github.com/newsroom-tools/keywordagent/providers/observability"
)

// Ref is a single entry in a fallback chain: a model name resolved against a
// concrete provider.
type Ref struct {
	Name     string // model identifier sent to the provider, e.g. "gpt-4o-mini"
	Provider ai.Provider
}

// Facade invokes an ordered fallback chain of model references.
type Facade struct {
	refs []Ref
}

// NewFacade creates a facade over the given references. The declared order is
// the fallback order. At least one reference is required.
func NewFacade(refs ...Ref) (*Facade, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("model facade requires at least one reference")
	}
	for index, ref := range refs {
		if ref.Provider == nil {
			return nil, fmt.Errorf("model facade reference %d (%q) has a nil provider", index, ref.Name)
		}
	}
	return &Facade{refs: refs}, nil
}

// Refs returns the configured references in fallback order.
func (facade *Facade) Refs() []Ref { return facade.refs }

// --- ERRORS ---

// Attempt records one failed invocation inside a fallback chain.
type Attempt struct {
	Model string
	Err   error
}

// ExhaustedError is returned when every reference in the chain has failed.
// Attempts preserves the chain order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (exhausted *ExhaustedError) Error() string {
	descriptions := make([]string, 0, len(exhausted.Attempts))
	for _, attempt := range exhausted.Attempts {
		descriptions = append(descriptions, fmt.Sprintf("%s: %v", attempt.Model, attempt.Err))
	}
	return fmt.Sprintf("all %d model invocations failed: %s", len(exhausted.Attempts), strings.Join(descriptions, "; "))
}

// Unwrap exposes the underlying attempt errors to errors.Is / errors.As.
func (exhausted *ExhaustedError) Unwrap() []error {
	underlying := make([]error, 0, len(exhausted.Attempts))
	for _, attempt := range exhausted.Attempts {
		underlying = append(underlying, attempt.Err)
	}
	return underlying
}

// --- INVOCATION ---

// Invoke sends the request through the fallback chain and returns the first
// successful response. The request's Model field is overwritten per attempt.
func (facade *Facade) Invoke(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return facade.invokeWith(ctx, request, nil)
}

// InvokeForTool forces the model to call the named tool. A response without
// at least one tool call counts as a failed attempt.
func (facade *Facade) InvokeForTool(ctx context.Context, request ai.ChatRequest, toolName string) (*ai.ChatResponse, error) {
	request.ToolChoiceForced = toolName
	return facade.invokeWith(ctx, request, func(response *ai.ChatResponse) error {
		if len(response.ToolCalls) == 0 {
			return fmt.Errorf("model returned no tool calls despite forced tool %q", toolName)
		}
		return nil
	})
}

// invokeWith runs the chain. The optional validate callback turns an otherwise
// successful response into a failed attempt, triggering fallback.
func (facade *Facade) invokeWith(ctx context.Context, request ai.ChatRequest, validate func(*ai.ChatResponse) error) (*ai.ChatResponse, error) {
	obs := observability.FromContext(ctx)
	attempts := make([]Attempt, 0, len(facade.refs))

	for _, ref := range facade.refs {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Model: ref.Name, Err: err})
			break
		}

		attemptRequest := request
		attemptRequest.Model = ref.Name

		spanCtx, span := obs.StartSpan(ctx, "model.invoke",
			observability.String(observability.AttrModelName, ref.Name),
		)

		response, err := ref.Provider.SendMessage(spanCtx, attemptRequest)
		if err == nil && response == nil {
			err = fmt.Errorf("provider returned nil response")
		}
		if err == nil && validate != nil {
			err = validate(response)
		}

		if err != nil {
			span.RecordError(err)
			span.End()
			obs.Warn(ctx, "model invocation failed, trying next in chain",
				observability.String(observability.AttrModelName, ref.Name),
				observability.Error(err),
			)
			attempts = append(attempts, Attempt{Model: ref.Name, Err: err})
			continue
		}

		span.End()
		return response, nil
	}

	return nil, &ExhaustedError{Attempts: attempts}
}
