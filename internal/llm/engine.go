// Package llm wraps the hosted text-generation service behind a small
// synchronous interface. Responses are decoded into a typed struct at this
// boundary so callers never reach into provider payloads.
package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// RoleUser is the conversation role for caller-authored messages.
const RoleUser = "user"

// Message is one entry in an ordered conversation.
type Message struct {
	Role    string
	Content string
}

// Request describes a single model invocation.
type Request struct {
	Model    string
	System   string
	Messages []Message

	Temperature float32
	TopP        float64
	MaxTokens   int32
}

// Usage holds the token counters reported for one call.
type Usage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Response is the typed result of a model invocation.
type Response struct {
	Text       string
	Usage      Usage
	StopReason string
}

// Engine is the interface for invoking a text-generation model. Invoke blocks
// until the service responds. Implementations must be safe for concurrent use.
type Engine interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// ServiceError reports a client-level failure from the generation service.
// Callers propagate it without retrying.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("model service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// LogUsage emits the token counters for one call. Observability only; usage is
// never persisted in the transcript.
func LogUsage(ctx context.Context, model string, resp *Response) {
	slog.InfoContext(ctx, "model call completed",
		"model", model,
		"inputTokens", resp.Usage.InputTokens,
		"outputTokens", resp.Usage.OutputTokens,
		"totalTokens", resp.Usage.TotalTokens,
		"stopReason", resp.StopReason)
}
