package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// EventType discriminates progress events on the stream.
type EventType string

const (
	// EventInternal is human-readable progress narration.
	EventInternal EventType = "internal"
	// EventInternalContent is an intermediate data dump, e.g. extracted entities.
	EventInternalContent EventType = "internal_content"
	// EventAnswer is a chunk of final-answer-relevant data; several nodes
	// contribute their own portion.
	EventAnswer EventType = "answer"
	// EventError is a fatal or non-fatal error notice.
	EventError EventType = "error"
	// EventComplete is the terminal success marker.
	EventComplete EventType = "complete"
	// EventToolCall announces a capability call being dispatched.
	EventToolCall EventType = "tool_call"
	// EventToolProcessing narrates a capability call in flight.
	EventToolProcessing EventType = "tool_processing"
)

// Event statuses distinguish fresh narration from repeated context.
const (
	StatusNew = "new"
	StatusOld = "old"
)

// Event is one frame of the progress protocol. The Type discriminator is
// always present; the remaining fields depend on the type.
type Event struct {
	Type        EventType      `json:"type"`
	EventStatus string         `json:"event_status,omitempty"`
	Node        NodeID         `json:"node,omitempty"`
	Content     any            `json:"content,omitempty"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolArgs    map[string]any `json:"tool_args,omitempty"`
}

// NewInternalEvent creates a progress narration event.
func NewInternalEvent(node NodeID, content string) Event {
	return Event{Type: EventInternal, EventStatus: StatusNew, Node: node, Content: content}
}

// NewInternalContentEvent creates an intermediate data dump event.
func NewInternalContentEvent(node NodeID, content any) Event {
	return Event{Type: EventInternalContent, EventStatus: StatusOld, Node: node, Content: content}
}

// NewAnswerEvent creates a final-answer chunk event.
func NewAnswerEvent(node NodeID, content any) Event {
	return Event{Type: EventAnswer, EventStatus: StatusNew, Node: node, Content: content}
}

// NewErrorEvent creates an error notice event.
func NewErrorEvent(node NodeID, message string) Event {
	return Event{Type: EventError, EventStatus: StatusNew, Node: node, Content: message}
}

// NewCompleteEvent creates the terminal success marker.
func NewCompleteEvent() Event {
	return Event{Type: EventComplete, Content: "Agent workflow completed"}
}

// NewToolCallEvent announces a capability dispatch.
func NewToolCallEvent(toolName string, toolArgs map[string]any) Event {
	return Event{Type: EventToolCall, ToolName: toolName, ToolArgs: toolArgs}
}

// NewToolProcessingEvent narrates a capability call in flight.
func NewToolProcessingEvent(content string) Event {
	return Event{Type: EventToolProcessing, Content: content}
}

// MarshalSSE renders the event as one server-sent-event frame:
// "data: " + single-line JSON + "\n\n". No id or event fields are used.
func (event Event) MarshalSSE() ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}

// WriteSSE writes the event's SSE frame to w.
func (event Event) WriteSSE(w io.Writer) error {
	frame, err := event.MarshalSSE()
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("failed to write event frame: %w", err)
	}
	return nil
}

// EmitFunc receives progress events in emission order.
type EmitFunc func(Event)

// emitter serializes concurrent emissions onto a single EmitFunc. Fan-out
// nodes and the search fan-out emit from multiple goroutines; the consumer
// must still observe one event at a time, in order of emission.
type emitter struct {
	mu   sync.Mutex
	sink EmitFunc
}

func newEmitter(sink EmitFunc) *emitter {
	return &emitter{sink: sink}
}

func (em *emitter) Emit(event Event) {
	if em.sink == nil {
		return
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	em.sink(event)
}
